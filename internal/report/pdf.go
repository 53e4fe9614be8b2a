// Package report renders printable monthly attendance reports.
package report

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core/entity"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/johnfercher/maroto/v2/pkg/repository"

	"neirocalendar/internal/core"
)

var (
	pdfHeaderColor = props.Color{Red: 50, Green: 50, Blue: 50}
	pdfMutedColor  = props.Color{Red: 120, Green: 120, Blue: 120}
	pdfLineColor   = props.Color{Red: 200, Green: 200, Blue: 200}
)

const fontFamily = "report"

type labels struct {
	Title    string
	Day      string
	Visits   string
	Attended string
	Earnings string
	Price    string
	Total    string
	Empty    string
	Yes      string
	No       string
}

var labelsByLocale = map[string]labels{
	core.LocaleRussian: {
		Title:    "Посещения",
		Day:      "День",
		Visits:   "Записи",
		Attended: "Пришли",
		Earnings: "Сумма",
		Price:    "Цена за визит",
		Total:    "Итого",
		Empty:    "Нет записей за месяц",
		Yes:      "да",
		No:       "нет",
	},
	core.LocaleEnglish: {
		Title:    "Attendance",
		Day:      "Day",
		Visits:   "Visits",
		Attended: "Attended",
		Earnings: "Earnings",
		Price:    "Price per visit",
		Total:    "Total",
		Empty:    "No visits this month",
		Yes:      "yes",
		No:       "no",
	},
}

// Renderer turns calendar views into PDF documents.
type Renderer struct {
	locale   string
	fontPath string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLocale selects the label language. Unknown locales fall back to English.
func WithLocale(locale string) Option {
	return func(r *Renderer) { r.locale = locale }
}

// WithFont embeds a UTF-8 TrueType font. The built-in PDF fonts only cover
// Latin-1, so Cyrillic names need one.
func WithFont(path string) Option {
	return func(r *Renderer) { r.fontPath = path }
}

func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{locale: core.DefaultLocale}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Renderer) labels() labels {
	if l, ok := labelsByLocale[r.locale]; ok {
		return l
	}
	return labelsByLocale[core.LocaleEnglish]
}

func (r *Renderer) config() (*entity.Config, error) {
	b := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15)

	if r.fontPath != "" {
		fonts, err := repository.New().
			AddUTF8Font(fontFamily, fontstyle.Normal, r.fontPath).
			AddUTF8Font(fontFamily, fontstyle.Bold, r.fontPath).
			Load()
		if err != nil {
			return nil, fmt.Errorf("load report font %s: %w", r.fontPath, err)
		}
		b = b.WithCustomFonts(fonts).WithDefaultFont(&props.Font{Family: fontFamily})
	}
	return b.Build(), nil
}

// RenderMonth renders the month totals, the per-day summaries and every
// visit of the selected month.
func (r *Renderer) RenderMonth(view core.CalendarView) ([]byte, error) {
	cfg, err := r.config()
	if err != nil {
		return nil, err
	}
	l := r.labels()
	m := maroto.New(cfg)

	m.AddRow(14,
		text.NewCol(12, fmt.Sprintf("%s: %s %d", l.Title, view.MonthName, view.Year), props.Text{
			Style: fontstyle.Bold,
			Size:  16,
			Color: &pdfHeaderColor,
		}),
	)
	m.AddRow(8,
		text.NewCol(12, fmt.Sprintf("%s: %s", l.Price, core.FormatAmount(view.PricePerVisit)), props.Text{
			Size:  10,
			Color: &pdfMutedColor,
		}),
	)
	m.AddRow(4, line.NewCol(12, props.Line{Color: &pdfLineColor}))

	if len(view.DaySummaries) == 0 {
		m.AddRow(10, text.NewCol(12, l.Empty, props.Text{Size: 10, Color: &pdfMutedColor}))
	} else {
		m.AddRow(8,
			text.NewCol(6, l.Day, props.Text{Style: fontstyle.Bold, Size: 9}),
			text.NewCol(2, l.Visits, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
			text.NewCol(2, l.Attended, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
			text.NewCol(2, l.Earnings, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		)
	}

	byDate := core.GroupByDate(view.InMonthRecords())
	for _, ds := range view.DaySummaries {
		weekday := view.WeekdayNames[ds.Date.ISOWeekday()-1]
		m.AddRow(7,
			text.NewCol(6, fmt.Sprintf("%s, %s", ds.Date, weekday), props.Text{
				Style: fontstyle.Bold,
				Size:  10,
				Color: &pdfHeaderColor,
			}),
			text.NewCol(2, fmt.Sprint(ds.Scheduled), props.Text{Size: 10, Align: align.Right}),
			text.NewCol(2, fmt.Sprint(ds.AttendedCount), props.Text{Size: 10, Align: align.Right}),
			text.NewCol(2, core.FormatAmount(ds.Earnings), props.Text{Size: 10, Align: align.Right}),
		)
		for _, rec := range byDate[ds.Date] {
			mark := l.No
			if rec.Attended {
				mark = l.Yes
			}
			m.AddRow(5,
				text.NewCol(8, "    "+rec.PersonName, props.Text{Size: 8, Color: &pdfMutedColor}),
				text.NewCol(4, mark, props.Text{Size: 8, Align: align.Right, Color: &pdfMutedColor}),
			)
		}
		m.AddRow(2)
	}

	m.AddRow(4, line.NewCol(12, props.Line{Color: &pdfLineColor}))
	m.AddRow(10,
		text.NewCol(8, l.Total, props.Text{
			Style: fontstyle.Bold,
			Size:  12,
			Color: &pdfHeaderColor,
		}),
		text.NewCol(2, fmt.Sprint(view.AttendedCount), props.Text{
			Style: fontstyle.Bold,
			Size:  12,
			Align: align.Right,
		}),
		text.NewCol(2, core.FormatAmount(view.TotalCost), props.Text{
			Style: fontstyle.Bold,
			Size:  12,
			Align: align.Right,
			Color: &pdfHeaderColor,
		}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generating PDF: %w", err)
	}
	return doc.GetBytes(), nil
}
