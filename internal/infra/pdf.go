package infra

// pdf.go — printable daily work-plan sheet using go-pdf/fpdf.
// A4 portrait, one row per plan line: product, size, initial quantity, a
// blank "vendu" column to fill in by hand during the day, and unit price.
// The sheet is what employees carry on the shop floor.

import (
	"bytes"
	"fmt"

	"makiti/internal/dto"

	"github.com/go-pdf/fpdf"
)

// GenerateWorkPlanPDF renders the plan as an A4 sheet and returns the raw
// PDF bytes for direct HTTP download.
func GenerateWorkPlanPDF(plan *dto.WorkPlanResponse) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 10, "Plan de travail", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(contentW, 7, plan.DateTravail, "", 1, "C", false, 0, "")
	if plan.Cloture {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(contentW, 6, "CLOTURE", "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	// ── Table header ─────────────────────────────────────────────────────────
	colCode := contentW * 0.16
	colNom := contentW * 0.34
	colTaille := contentW * 0.10
	colInit := contentW * 0.12
	colVendu := contentW * 0.12
	colPrix := contentW * 0.16

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(colCode, 7, "Code", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colNom, 7, "Produit", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colTaille, 7, "Taille", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colInit, 7, "Initial", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colVendu, 7, "Vendu", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colPrix, 7, "Prix (GNF)", "1", 1, "R", true, 0, "")

	// ── Rows ─────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 9)
	for _, ligne := range plan.Lignes {
		nom := ligne.Nom
		if len(nom) > 32 {
			nom = nom[:31] + "…"
		}
		vendu := ""
		if plan.Cloture || ligne.QuantiteVendue > 0 {
			vendu = fmt.Sprintf("%d", ligne.QuantiteVendue)
		}
		pdf.CellFormat(colCode, 7, ligne.CodeModele, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colNom, 7, nom, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colTaille, 7, ligne.Taille, "1", 0, "C", false, 0, "")
		pdf.CellFormat(colInit, 7, fmt.Sprintf("%d", ligne.QuantiteInitiale), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colVendu, 7, vendu, "1", 0, "C", false, 0, "")
		pdf.CellFormat(colPrix, 7, ligne.PrixUnitaire.String(), "1", 1, "R", false, 0, "")
	}

	// ── Totals ───────────────────────────────────────────────────────────────
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW*0.6, 7, "Total vendu:", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.4, 7, fmt.Sprintf("%d pièces", plan.TotalVendu), "", 1, "R", false, 0, "")
	pdf.CellFormat(contentW*0.6, 7, "Montant total:", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.4, 7, plan.MontantTotal.String()+" GNF", "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render work plan: %w", err)
	}
	return buf.Bytes(), nil
}
