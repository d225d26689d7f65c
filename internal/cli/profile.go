package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/folio/internal/dashboard"
	"github.com/mesh-intelligence/folio/internal/format"
	"github.com/mesh-intelligence/folio/pkg/types"
)

func newProfileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the profile and contact info",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, _, closeFn, err := a.openDashboard()
			defer closeFn()
			if err != nil {
				return err
			}
			p, err := d.ProfileBundle(cmd.Context())
			if err != nil {
				return storeFailure(err)
			}
			return a.emit(cmd.OutOrStdout(), p, func(w io.Writer) error {
				return writeProfile(w, p)
			})
		},
	}
}

func writeProfile(w io.Writer, p dashboard.Profile) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if p.Profile == nil {
		fmt.Fprintln(tw, "profile:\tnot set")
	} else {
		var m types.ProfileMetadata
		if err := p.Profile.DecodeMetadata(&m); err != nil {
			return sysError(err)
		}
		fmt.Fprintf(tw, "name:\t%s\n", p.Profile.DisplayName())
		fmt.Fprintf(tw, "title:\t%s\n", m.ProfessionalTitle)
		fmt.Fprintf(tw, "heading:\t%s\n", m.HeroHeading)
		fmt.Fprintf(tw, "about:\t%s\n", format.Truncate(m.AboutMe, 80))
		if m.ResumeFile != nil && m.ResumeFile.URL != "" {
			fmt.Fprintf(tw, "resume:\t%s\n", m.ResumeFile.URL)
		}
	}
	if p.ContactInfo == nil {
		fmt.Fprintln(tw, "contact:\tnot set")
		return tw.Flush()
	}
	var c types.ContactInfoMetadata
	if err := p.ContactInfo.DecodeMetadata(&c); err != nil {
		return sysError(err)
	}
	for _, row := range []struct{ label, value string }{
		{"email", c.Email},
		{"phone", c.Phone},
		{"location", c.Location},
	} {
		if row.value != "" {
			fmt.Fprintf(tw, "%s:\t%s\n", row.label, row.value)
		}
	}
	for _, link := range []struct{ label, url string }{
		{"github", c.GithubURL},
		{"linkedin", c.LinkedinURL},
		{"twitter", c.TwitterURL},
		{"portfolio", c.PortfolioURL},
	} {
		if link.url == "" {
			continue
		}
		if !format.ValidURL(link.url) {
			fmt.Fprintf(tw, "%s:\t%s (invalid URL)\n", link.label, link.url)
			continue
		}
		fmt.Fprintf(tw, "%s:\t%s\n", link.label, format.Domain(link.url))
	}
	return tw.Flush()
}
