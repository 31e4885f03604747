// Package pdf implementa el reporte imprimible del catálogo de categorías:
// el bosque del tenant con sangría por nivel, conteo de productos por
// categoría y un pie con los agregados.
package pdf

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// CategoryReportGenerator genera el PDF del catálogo usando Maroto v2.
type CategoryReportGenerator struct{}

// NewCategoryReportGenerator construye el generador.
func NewCategoryReportGenerator() *CategoryReportGenerator { return &CategoryReportGenerator{} }

// GenerateCategoryReport genera el PDF y devuelve sus bytes.
func (g *CategoryReportGenerator) GenerateCategoryReport(
	tenantName string,
	tree *dto.CategoryTreeResponse,
	stats *dto.CategoryStatsResponse,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Catálogo de categorías", true).
		WithAuthor(tenantName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(tenantName))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	for _, root := range tree.Roots {
		for _, r := range nodeRows(root, 0) {
			m.AddRows(r)
		}
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(statsRow(stats))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: nombre del tenant + fecha de emisión.
func headerRow(tenantName string) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New("Catálogo de categorías — "+tenantName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(4).Add(
			text.New(time.Now().Format("02/01/2006"), props.Text{
				Size: 9, Top: 3, Align: align.Right, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	return row.New(7).Add(
		col.New(9).Add(text.New("Categoría", props.Text{Style: fontstyle.Bold, Size: 9})),
		col.New(3).Add(text.New("Productos", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right})),
	)
}

// nodeRows emite la fila del nodo y, recursivamente, las de sus descendientes
// con sangría creciente.
func nodeRows(node *dto.CategoryTreeNode, depth int) []core.Row {
	indent := strings.Repeat("    ", depth)
	rows := []core.Row{
		row.New(6).Add(
			col.New(9).Add(text.New(indent+node.Name, props.Text{Size: 9})),
			col.New(3).Add(text.New(strconv.Itoa(node.ProductCount), props.Text{Size: 9, Align: align.Right})),
		),
	}
	for _, ch := range node.Children {
		rows = append(rows, nodeRows(ch, depth+1)...)
	}
	return rows
}

func statsRow(stats *dto.CategoryStatsResponse) core.Row {
	resumen := fmt.Sprintf("Categorías: %d   Raíces: %d   Con productos: %d   Promedio productos/categoría: %s",
		stats.TotalCategories, stats.RootCategories, stats.CategoriesWithProducts,
		stats.AvgProductsPerCategory.StringFixed(2))
	return row.New(8).Add(
		col.New(12).Add(text.New(resumen, props.Text{Size: 8, Color: colorGray, Top: 2})),
	)
}
