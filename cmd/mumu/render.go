package main

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"os"
	"strings"

	"github.com/fzzzy/mumulib/internal/errors"
	"github.com/fzzzy/mumulib/pkg/patslot"
	"github.com/fzzzy/mumulib/pkg/render"
	"github.com/fzzzy/mumulib/pkg/vdom"
	"github.com/spf13/cobra"
)

func renderCmd() *cobra.Command {
	var (
		template  string
		pattern   string
		slotArgs  []string
		slotsJSON string
		pretty    bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Fill a pattern and print it",
		Long: `Fill a pattern from a template and print the resulting HTML.

Without --pattern the template's <body> is filled instead. Slot values
come from --slots-json (a JSON object) and then --slot flags, which win.
JSON arrays become sequences; objects are printed as text.

The template may be a file path or a file, http(s) or s3 URL.

Examples:
  mumu render --template index.html --pattern person --slot name=Jane --slot age=12
  mumu render --template s3://site/patterns.html --slots-json people.json --pretty`,
		RunE: func(cmd *cobra.Command, args []string) error {
			slots, err := loadSlots(slotsJSON, slotArgs)
			if err != nil {
				return err
			}
			out, err := renderTemplate(cmd.Context(), template, pattern, slots, pretty)
			if out != "" {
				if _, werr := cmd.OutOrStdout().Write([]byte(out)); werr != nil {
					return werr
				}
			}
			if stderrors.Is(err, patslot.ErrInvalidAttributeBinding) {
				warn(cmd, "%v", err)
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "", "Template file or URL")
	cmd.Flags().StringVarP(&pattern, "pattern", "p", "", "Pattern id to clone (default: fill the body)")
	cmd.Flags().StringArrayVar(&slotArgs, "slot", nil, "Slot value as name=value (repeatable)")
	cmd.Flags().StringVar(&slotsJSON, "slots-json", "", "JSON file of slot values")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the output")
	cmd.MarkFlagRequired("template")

	return cmd
}

// renderTemplate loads the template, fills it and renders the result.
func renderTemplate(ctx context.Context, source, pattern string, slots patslot.Slots, pretty bool) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	fetcher, err := patslot.FetcherFor(ctx, source)
	if err != nil {
		return "", err
	}
	tmpl := &patslot.Template{URL: source, Fetcher: fetcher}
	body, err := tmpl.Load(ctx)
	if err != nil {
		return "", err
	}

	var node *vdom.VNode
	if pattern != "" {
		node, err = patslot.ClonePattern(ctx, patslot.StaticBaseline(body), pattern, slots)
	} else {
		node = body
		err = patslot.Fill(ctx, node, slots, patslot.Replace)
	}
	if node == nil {
		return "", err
	}
	if err != nil && !stderrors.Is(err, patslot.ErrInvalidAttributeBinding) {
		return "", err
	}

	r := render.NewRenderer(render.RendererConfig{Pretty: pretty})
	out, renderErr := r.RenderToString(node)
	if renderErr != nil {
		return "", renderErr
	}
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out, err
}

// loadSlots merges slot values from a JSON file and name=value arguments.
func loadSlots(jsonPath string, args []string) (patslot.Slots, error) {
	slots := make(patslot.Slots)

	if jsonPath != "" {
		data, err := os.ReadFile(jsonPath)
		if err != nil {
			return nil, errors.New("M060").WithDetail(jsonPath).Wrap(err)
		}
		var values map[string]any
		if err := json.Unmarshal(data, &values); err != nil {
			return nil, errors.New("M060").
				WithDetail("Slots JSON must be an object: " + err.Error())
		}
		for k, v := range values {
			slots[k] = patslot.ValueOf(v)
		}
	}

	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, errors.New("M060").WithDetailf("%q is not name=value", arg)
		}
		slots[name] = patslot.String(value)
	}
	return slots, nil
}
