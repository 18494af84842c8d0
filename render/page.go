package render

import (
	"embed"
	"html/template"
	"io"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"heartrisk/patient"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// leftColumn is how many fields the first form column holds.
const leftColumn = 6

// OptionView is one selector option.
type OptionView struct {
	Value    string
	Selected bool
}

// FieldView is one form widget.
type FieldView struct {
	Name    string
	Label   string
	Choice  bool
	Min     string
	Max     string
	Step    string
	Value   string
	Options []OptionView
	Error   string
}

// Page is the data of the single form page.
type Page struct {
	Lang        string
	Title       string
	Submit      string
	ResultTitle string
	Left        []FieldView
	Right       []FieldView
	Verdict     *Verdict
	Error       string
}

// NewPage lays the form out with in as the current values.
func NewPage(p *message.Printer, tag language.Tag, in patient.Input) *Page {
	page := &Page{
		Lang:        tag.String(),
		Title:       p.Sprintf(MsgTitle),
		Submit:      p.Sprintf(MsgSubmit),
		ResultTitle: p.Sprintf(MsgResult),
	}
	for i, f := range patient.Fields() {
		view := FieldView{
			Name:  f.Name,
			Label: p.Sprintf(f.Label),
			Value: in.Get(f.Name),
		}
		if f.Kind == patient.KindChoice {
			view.Choice = true
			for _, option := range f.Options {
				view.Options = append(view.Options, OptionView{Value: option, Selected: option == view.Value})
			}
		} else {
			view.Min = strconv.FormatFloat(f.Min, 'f', -1, 64)
			view.Max = strconv.FormatFloat(f.Max, 'f', -1, 64)
			view.Step = strconv.FormatFloat(f.Step, 'f', -1, 64)
		}
		if i < leftColumn {
			page.Left = append(page.Left, view)
		} else {
			page.Right = append(page.Right, view)
		}
	}
	return page
}

// SetFieldErrors attaches messages to the named fields.
func (pg *Page) SetFieldErrors(errs map[string]string) {
	for _, column := range [][]FieldView{pg.Left, pg.Right} {
		for i := range column {
			if msg, ok := errs[column[i].Name]; ok {
				column[i].Error = msg
			}
		}
	}
}

// Render writes the page as HTML.
func (pg *Page) Render(w io.Writer) error {
	return pageTemplate.Execute(w, pg)
}
