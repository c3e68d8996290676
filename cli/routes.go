package cli

import (
	"fmt"

	actx "go.hackfix.me/weave/app/context"
	api "go.hackfix.me/weave/web/server/api/v1"
)

// The Routes command lists the API endpoints served by the web server.
type Routes struct{}

// Run the routes command.
func (c *Routes) Run(appCtx *actx.Context) error {
	routes := api.New(nil, nil, appCtx.Logger).Routes()

	data := make([][]string, 0, len(routes))
	for _, r := range routes {
		data = append(data, []string{r.Method, api.Prefix + r.Path, r.Description})
	}

	if err := renderTable(appCtx.Stdout, []string{"Method", "Path", "Description"}, data, 0); err != nil {
		return fmt.Errorf("failed rendering routes table: %w", err)
	}

	return nil
}
