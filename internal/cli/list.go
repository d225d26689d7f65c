package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/folio/internal/collection"
	"github.com/mesh-intelligence/folio/internal/stats"
	"github.com/mesh-intelligence/folio/pkg/types"
)

func newListCmd(a *app) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "list <type>",
		Short: "List the objects of a content type",
		Long: "List every object of a content type. Projects are listed by their\n" +
			"order field.\n\n" +
			"Types: profile, projects, skills, services, testimonials, contact-info",
		Example: "  folio list projects\n  folio list skills --category Backend\n  folio list testimonials -o json",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			objType, err := contentType(args[0])
			if err != nil {
				return err
			}
			if category != "" && objType != types.TypeSkills {
				return userError(fmt.Errorf("--category applies to %s only", types.TypeSkills))
			}
			sync, closeFn, err := a.loadCollection(cmd, objType)
			defer closeFn()
			if err != nil {
				return err
			}
			objs := stats.FilterCategory(sync.Items(), category)
			return a.emit(cmd.OutOrStdout(), objs, func(w io.Writer) error {
				if len(objs) == 0 {
					_, err := fmt.Fprintf(w, "no %s\n", types.Plural(objType))
					return err
				}
				return writeTable(w, objType, objs)
			})
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only skills in this category")
	return cmd
}

// loadCollection opens the store and loads the synchronizer of objType.
func (a *app) loadCollection(cmd *cobra.Command, objType string) (*collection.Synchronizer, func(), error) {
	d, _, closeFn, err := a.openDashboard()
	if err != nil {
		return nil, closeFn, err
	}
	sync, err := d.Collection(objType)
	if err != nil {
		return nil, closeFn, userError(err)
	}
	if _, err := sync.Load(cmd.Context()); err != nil {
		return nil, closeFn, storeFailure(err)
	}
	return sync, closeFn, nil
}

// lookup returns the loaded object with id or a user error.
func lookup(sync *collection.Synchronizer, id string) (types.Object, error) {
	obj, ok := sync.Get(id)
	if !ok {
		return types.Object{}, userError(fmt.Errorf("%s %q: %w", types.Singular(sync.Type()), id, types.ErrNotFound))
	}
	return obj, nil
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <type> <id>",
		Short: "Show one object",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			objType, err := contentType(args[0])
			if err != nil {
				return err
			}
			sync, closeFn, err := a.loadCollection(cmd, objType)
			defer closeFn()
			if err != nil {
				return err
			}
			obj, err := lookup(sync, args[1])
			if err != nil {
				return err
			}
			return a.emit(cmd.OutOrStdout(), obj, func(w io.Writer) error {
				return writeObject(w, obj)
			})
		},
	}
}

func newSkillsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "skills",
		Short: "Show skills grouped by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sync, closeFn, err := a.loadCollection(cmd, types.TypeSkills)
			defer closeFn()
			if err != nil {
				return err
			}
			skills := sync.Items()
			groups := stats.GroupByCategory(skills)
			return a.emit(cmd.OutOrStdout(), groups, func(w io.Writer) error {
				if len(skills) == 0 {
					_, err := fmt.Fprintln(w, "no skills")
					return err
				}
				for i, c := range stats.Categories(skills) {
					if i > 0 {
						fmt.Fprintln(w)
					}
					fmt.Fprintf(w, "%s (%d)\n", c, len(groups[c]))
					for _, s := range groups[c] {
						if level := s.Option("proficiency_level"); level != "" {
							fmt.Fprintf(w, "  %s - %s\n", s.DisplayName(), level)
						} else {
							fmt.Fprintf(w, "  %s\n", s.DisplayName())
						}
					}
				}
				return nil
			})
		},
	}
}
