package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/folio/pkg/types"
)

// errNotConfirmed is returned by delete without --yes.
var errNotConfirmed = errors.New("refusing to delete without --yes")

func newCreateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create <type> key=value...",
		Short: "Create an object",
		Long: "Create an object from metadata assignments. Values that parse as JSON\n" +
			"keep their type, so order=3 is a number and featured=true a boolean.",
		Example: `  folio create projects project_name=Atlas short_description="Map tiles" order=4 tech_stack='["Go"]'`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			objType, err := contentType(args[0])
			if err != nil {
				return err
			}
			meta, err := parseAssignments(args[1:])
			if err != nil {
				return userError(err)
			}
			if err := types.ValidateForm(objType, meta); err != nil {
				return userError(err)
			}
			d, _, closeFn, err := a.openDashboard()
			defer closeFn()
			if err != nil {
				return err
			}
			sync, _ := d.Collection(objType)
			obj, err := sync.Create(cmd.Context(), meta)
			if err != nil {
				return storeFailure(err)
			}
			return a.emit(cmd.OutOrStdout(), obj, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Created %s %s (%s)\n", types.Singular(objType), obj.ID, obj.Title)
				return err
			})
		},
	}
}

func newUpdateCmd(a *app) *cobra.Command {
	var optimistic bool
	cmd := &cobra.Command{
		Use:   "update <type> <id> key=value...",
		Short: "Change metadata fields of an object",
		Long: "Merge the assignments into the object's metadata and write the result.\n" +
			"Keys not named keep their current values.",
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			objType, err := contentType(args[0])
			if err != nil {
				return err
			}
			id := args[1]
			partial, err := parseAssignments(args[2:])
			if err != nil {
				return userError(err)
			}
			sync, closeFn, err := a.loadCollection(cmd, objType)
			defer closeFn()
			if err != nil {
				return err
			}
			cur, err := lookup(sync, id)
			if err != nil {
				return err
			}
			merged := make(map[string]any, len(cur.Metadata)+len(partial))
			for k, v := range cur.Metadata {
				merged[k] = v
			}
			for k, v := range partial {
				merged[k] = v
			}
			if err := types.ValidateForm(objType, merged); err != nil {
				return userError(err)
			}
			update := sync.Update
			if optimistic {
				update = sync.UpdateOptimistic
			}
			if err := update(cmd.Context(), id, partial); err != nil {
				return storeFailure(err)
			}
			obj, _ := sync.Get(id)
			return a.emit(cmd.OutOrStdout(), obj, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Updated %s %s\n", types.Singular(objType), id)
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&optimistic, "optimistic", false, "apply locally before the store confirms, rolling back on failure")
	return cmd
}

func newFeatureCmd(a *app) *cobra.Command {
	var off, toggle bool
	cmd := &cobra.Command{
		Use:   "feature <id>",
		Short: "Mark a project as featured",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if off && toggle {
				return userError(errors.New("--off and --toggle are mutually exclusive"))
			}
			id := args[0]
			sync, closeFn, err := a.loadCollection(cmd, types.TypeProjects)
			defer closeFn()
			if err != nil {
				return err
			}
			if _, err := lookup(sync, id); err != nil {
				return err
			}
			if toggle {
				err = sync.ToggleFeatured(cmd.Context(), id)
			} else {
				err = sync.UpdateOptimistic(cmd.Context(), id, map[string]any{types.FieldFeatured: !off})
			}
			if err != nil {
				return storeFailure(err)
			}
			obj, _ := sync.Get(id)
			return a.emit(cmd.OutOrStdout(), obj, func(w io.Writer) error {
				state := "featured"
				if !obj.Bool(types.FieldFeatured) {
					state = "not featured"
				}
				_, err := fmt.Fprintf(w, "%s is %s\n", obj.DisplayName(), state)
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&off, "off", false, "remove the featured mark")
	cmd.Flags().BoolVar(&toggle, "toggle", false, "flip the featured mark")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	var yes, optimistic bool
	cmd := &cobra.Command{
		Use:   "delete <type> <id>",
		Short: "Delete an object permanently",
		Long:  "Delete an object. Deletion cannot be undone, so --yes is required.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			objType, err := contentType(args[0])
			if err != nil {
				return err
			}
			if !yes {
				return userError(errNotConfirmed)
			}
			id := args[1]
			sync, closeFn, err := a.loadCollection(cmd, objType)
			defer closeFn()
			if err != nil {
				return err
			}
			obj, err := lookup(sync, id)
			if err != nil {
				return err
			}
			del := sync.Delete
			if optimistic {
				del = sync.DeleteOptimistic
			}
			if err := del(cmd.Context(), id); err != nil {
				return storeFailure(err)
			}
			return a.emit(cmd.OutOrStdout(), map[string]string{"deleted": id}, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Deleted %s %s (%s)\n", types.Singular(objType), id, obj.DisplayName())
				return err
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the deletion")
	cmd.Flags().BoolVar(&optimistic, "optimistic", false, "remove locally before the store confirms, restoring on failure")
	return cmd
}
