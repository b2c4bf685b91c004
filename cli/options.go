package cli

// Options are the global flags and commands of the workpro binary.
type Options struct {
	Config  string `short:"c" long:"config" description:"config file (defaults to CONFIG_PATH or ./workpro.yaml)"`
	Verbose bool   `short:"v" long:"verbose" description:"development logging"`

	Login     LoginCommand     `command:"login" description:"obtain and store a token pair"`
	Logout    struct{}         `command:"logout" description:"clear the stored token pair"`
	Whoami    struct{}         `command:"whoami" description:"print the authenticated user"`
	List      ListCommand      `command:"list" description:"list a page of a resource"`
	Get       RecordCommand    `command:"get" description:"print one record"`
	Delete    RecordCommand    `command:"delete" description:"delete one record"`
	Countries CountriesCommand `command:"countries" description:"list countries"`
	Summary   struct{}         `command:"summary" description:"print the reporting summary"`
}

type LoginCommand struct {
	User     string `short:"u" long:"user" description:"email address" required:"true"`
	Password string `short:"p" long:"password" description:"password" env:"WORKPRO_PASSWORD"`
}

type ListCommand struct {
	Page    int    `long:"page" default:"1" description:"page number"`
	PerPage int    `long:"per-page" default:"10" description:"rows per page, 0 for all"`
	SortBy  string `long:"sort-by" default:"created_at" description:"sort key"`
	Asc     bool   `long:"asc" description:"ascending order"`
	Search  string `short:"s" long:"search" description:"search term"`
	Status  string `long:"status" description:"status filter"`
	Args    struct {
		Resource string `positional-arg-name:"resource" required:"true"`
	} `positional-args:"yes"`
}

type RecordCommand struct {
	Args struct {
		Resource string `positional-arg-name:"resource" required:"true"`
		ID       string `positional-arg-name:"id" required:"true"`
	} `positional-args:"yes"`
}

type CountriesCommand struct {
	Locale string `short:"l" long:"locale" default:"de" description:"translation locale"`
}
