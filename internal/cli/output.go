package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/folio/internal/format"
	"github.com/mesh-intelligence/folio/pkg/types"
)

// Output formats accepted by --output.
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

func validOutput(f string) error {
	switch f {
	case outputText, outputJSON, outputYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q (valid: text, json, yaml)", f)
}

// emit writes v as JSON or YAML, or calls text for the text format.
func (a *app) emit(w io.Writer, v any, text func(io.Writer) error) error {
	switch a.flags.output {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return sysError(fmt.Errorf("encode JSON: %w", err))
		}
		return nil
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(toYAML(v)); err != nil {
			return sysError(fmt.Errorf("encode YAML: %w", err))
		}
		return enc.Close()
	}
	return text(w)
}

// toYAML round-trips v through JSON so YAML output uses the same field
// names as JSON output.
func toYAML(v any) any {
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return v
	}
	return generic
}

// column is one extra column of an object listing.
type column struct {
	header string
	value  func(types.Object) string
}

// columnsFor returns the type-specific listing columns.
func columnsFor(objType string) []column {
	switch objType {
	case types.TypeProjects:
		return []column{
			{"ORDER", func(o types.Object) string { return fmt.Sprint(o.Int(types.FieldOrder)) }},
			{"FEATURED", func(o types.Object) string { return yesNo(o.Bool(types.FieldFeatured)) }},
			{"TECH", func(o types.Object) string {
				return format.Truncate(strings.Join(o.Strings(types.FieldTechStack), ", "), 30)
			}},
		}
	case types.TypeSkills:
		return []column{
			{"CATEGORY", func(o types.Object) string { return o.Option(types.FieldCategory) }},
			{"LEVEL", func(o types.Object) string { return o.Option("proficiency_level") }},
		}
	case types.TypeServices:
		return []column{
			{"PRICE", func(o types.Object) string { return o.String("price_range") }},
		}
	case types.TypeTestimonials:
		return []column{
			{"COMPANY", func(o types.Object) string { return o.String("company") }},
			{"RATING", func(o types.Object) string {
				r, _ := o.Number(types.FieldRating)
				return format.StarRating(r)
			}},
		}
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// writeTable renders objects as aligned columns.
func writeTable(w io.Writer, objType string, objs []types.Object) error {
	cols := columnsFor(objType)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	header := []string{"ID", "NAME"}
	for _, c := range cols {
		header = append(header, c.header)
	}
	header = append(header, "MODIFIED")
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, o := range objs {
		row := []string{o.ID, format.Truncate(o.DisplayName(), 40)}
		for _, c := range cols {
			row = append(row, c.value(o))
		}
		row = append(row, format.Ago(o.ModifiedAt))
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// writeObject renders one object as key: value lines.
func writeObject(w io.Writer, o types.Object) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "id:\t%s\n", o.ID)
	fmt.Fprintf(tw, "type:\t%s\n", o.Type)
	fmt.Fprintf(tw, "title:\t%s\n", o.Title)
	fmt.Fprintf(tw, "slug:\t%s\n", o.Slug)
	if !o.CreatedAt.IsZero() {
		fmt.Fprintf(tw, "created:\t%s\n", format.Date(o.CreatedAt))
	}
	if !o.ModifiedAt.IsZero() {
		fmt.Fprintf(tw, "modified:\t%s\n", format.Ago(o.ModifiedAt))
	}
	for _, k := range sortedKeys(o.Metadata) {
		fmt.Fprintf(tw, "%s:\t%s\n", k, renderValue(o.Metadata[k]))
	}
	return tw.Flush()
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// renderValue prints scalars plainly and everything else as compact JSON.
func renderValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case nil:
		return ""
	case map[string]any:
		if val, ok := x["value"].(string); ok {
			return val
		}
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(raw)
}
