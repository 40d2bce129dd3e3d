package templates

// Options are the resolved print options a template sees as .Options.
type Options struct {
	Orientation     string
	PageSize        string
	ShowHeader      bool
	ShowFooter      bool
	ShowPageNumbers bool
	Title           string
	HeaderData      map[string]any
	FooterData      map[string]any
	RTL             bool
	Watermark       string
	Copies          int
}

// View is the value a template executes against.
type View struct {
	Data    any
	Options Options
}
