package main

import (
	"github.com/spf13/cobra"

	"github.com/Swader/ciplusplus/internal/config"
	"github.com/Swader/ciplusplus/internal/output"
)

// loadSite loads the site config named by --site, or finds one.
func loadSite(cmd *cobra.Command) (*config.Site, error) {
	if path := stringFlag(cmd, "site"); path != "" {
		return config.Load(path)
	}
	return config.Find()
}

// openSite loads the site config and opens its template source. The caller
// closes the returned templates.
func openSite(cmd *cobra.Command) (*config.Site, *config.Templates, error) {
	site, err := loadSite(cmd)
	if err != nil {
		return nil, nil, output.NewUserError(err.Error())
	}
	tmpl, err := site.OpenSource(cmd.Context())
	if err != nil {
		return nil, nil, output.NewSystemErrorWithCause("opening template source", err)
	}
	return site, tmpl, nil
}
