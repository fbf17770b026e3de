// Package config loads a BoxMux YAML document into an *model.Application
// (Section 4.E): parse, schema-validate, default-fill, construct the
// model tree, run variable substitution, assign derived fields. Grounded
// on internal/config/config.go's Load/LoadFrom/validate shape, widened
// from "one small typed struct" to a full schema with per-field
// validation aggregated via go.uber.org/multierr instead of
// return-on-first-error, since Section 4.E's failure mode is "bubbles a
// tagged error" (plural, in practice — surfacing every violation at once
// is friendlier to a human editing YAML by hand).
package config

// rawApplication mirrors the Section 3 Application/Layout/MuxBox/Choice
// shape as written in YAML, with yaml.v3 KnownFields enforcement applied
// at decode time (see loader.go) to reject unrecognized keys.
type rawApplication struct {
	Layouts   []*rawLayout      `yaml:"layouts"`
	Variables map[string]string `yaml:"variables"`
	Libs      []string          `yaml:"libs"`
	Style     *rawStyle         `yaml:"style"`
}

type rawLayout struct {
	ID        string            `yaml:"id"`
	Root      bool              `yaml:"root"`
	Title     string            `yaml:"title"`
	Style     *rawStyle         `yaml:"style"`
	Variables map[string]string `yaml:"variables"`
	Children  []*rawMuxBox      `yaml:"children"`
}

type rawStyle struct {
	Foreground         string `yaml:"foreground"`
	Background         string `yaml:"background"`
	TitleColor         string `yaml:"title_color"`
	BorderColor        string `yaml:"border_color"`
	MenuColor          string `yaml:"menu_color"`
	SelectedForeground string `yaml:"selected_foreground"`
	SelectedBackground string `yaml:"selected_background"`
	SelectedBorder     string `yaml:"selected_border"`
	FillChar           string `yaml:"fill_char"`
	Bold               *bool  `yaml:"bold"`
	Italic             *bool  `yaml:"italic"`
	Underline          *bool  `yaml:"underline"`
}

type rawPosition struct {
	X1 any `yaml:"x1"`
	Y1 any `yaml:"y1"`
	X2 any `yaml:"x2"`
	Y2 any `yaml:"y2"`
}

type rawChoice struct {
	ID             string   `yaml:"id"`
	Content        string   `yaml:"content"`
	Script         []string `yaml:"script"`
	Thread         bool     `yaml:"thread"`
	RedirectOutput string   `yaml:"redirect_output"`
	AppendOutput   bool     `yaml:"append_output"`
}

type rawChartConfig struct {
	Type       string `yaml:"type"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Title      string `yaml:"title"`
	XAxisLabel string `yaml:"x_axis_label"`
	YAxisLabel string `yaml:"y_axis_label"`
}

type rawChartPoint struct {
	Label string  `yaml:"label"`
	X     float64 `yaml:"x"`
	Value float64 `yaml:"value"`
}

type rawTableConfig struct {
	Headers        []string `yaml:"headers"`
	Sortable       bool     `yaml:"sortable"`
	Filterable     bool     `yaml:"filterable"`
	PageSize       int      `yaml:"page_size"`
	ShowRowNumbers bool     `yaml:"show_row_numbers"`
	ZebraStriping  bool     `yaml:"zebra_striping"`
	BorderStyle    string   `yaml:"border_style"`
}

type rawMuxBox struct {
	ID          string       `yaml:"id"`
	Title       string       `yaml:"title"`
	TitleAnchor string       `yaml:"title_anchor"`
	Position    *rawPosition `yaml:"position"`

	Content string   `yaml:"content"`
	Script  []string `yaml:"script"`
	Choices []*rawChoice `yaml:"choices"`

	PTY               bool   `yaml:"pty"`
	RefreshIntervalMs int    `yaml:"refresh_interval_ms"`
	RedirectOutput    string `yaml:"redirect_output"`
	AppendOutput      bool   `yaml:"append_output"`

	TabOrder    *string `yaml:"tab_order"`
	NextFocusID string  `yaml:"next_focus_id"`

	Overflow string `yaml:"overflow"`

	AutoScrollBottom bool `yaml:"auto_scroll_bottom"`

	Style     *rawStyle `yaml:"style"`
	Border    bool      `yaml:"border"`
	MinWidth  int       `yaml:"min_width"`
	MinHeight int       `yaml:"min_height"`
	MaxWidth  int       `yaml:"max_width"`
	MaxHeight int       `yaml:"max_height"`

	OnKeypress map[string][]string `yaml:"on_keypress"`

	Variables map[string]string `yaml:"variables"`

	ChartConfig *rawChartConfig  `yaml:"chart_config"`
	ChartData   []*rawChartPoint `yaml:"chart_data"`

	TableConfig *rawTableConfig `yaml:"table_config"`
	TableData   [][]string      `yaml:"table_data"`

	Children []*rawMuxBox `yaml:"children"`
}
