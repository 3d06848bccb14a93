package cli

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strconv"
	"strings"

	apperrors "github.com/fitpay/fitpay-admin/internal/pkg/errors"
	"github.com/fitpay/fitpay-admin/internal/screen"
	"github.com/fitpay/fitpay-admin/pkg/client"
	"github.com/spf13/cobra"
)

// field is a form field exposed as a flag named after it.
type field struct {
	name    string
	usage   string
	boolean bool
}

func addFieldFlags(cmd *cobra.Command, fields []field) {
	for _, f := range fields {
		if f.boolean {
			cmd.Flags().Bool(f.name, false, f.usage)
			continue
		}
		cmd.Flags().String(f.name, "", f.usage)
	}
}

// fieldValues overlays the flags that were set on base.
func fieldValues(cmd *cobra.Command, fields []field, base url.Values) url.Values {
	v := url.Values{}
	for key, vals := range base {
		v[key] = vals
	}
	for _, f := range fields {
		if !cmd.Flags().Changed(f.name) {
			continue
		}
		if f.boolean {
			b, _ := cmd.Flags().GetBool(f.name)
			v.Set(f.name, strconv.FormatBool(b))
			continue
		}
		val, _ := cmd.Flags().GetString(f.name)
		v.Set(f.name, val)
	}
	return v
}

// formHandlers adapts an entity form to the CLI.
type formHandlers[In any, T any] struct {
	open       func(id int64) *screen.Form[In, T]
	fromValues func(url.Values) In
	values     func(In) url.Values
}

// save creates (id 0) or updates an entity from the flags. Updates start from
// the stored entity so only the given flags change.
func (h formHandlers[In, T]) save(ctx context.Context, cmd *cobra.Command, fields []field, id int64) (*T, error) {
	form := h.open(id)

	base := url.Values{}
	if form.Mode() == screen.ModeEdit {
		in, err := form.Load(ctx)
		if err != nil {
			return nil, formError(form.Banner(), nil)
		}
		base = h.values(in)
	}

	saved, err := form.Submit(ctx, h.fromValues(fieldValues(cmd, fields, base)))
	if err != nil {
		return nil, formError(form.Banner(), form.FieldErrors())
	}
	return saved, nil
}

func formError(banner string, fields map[string]string) error {
	if len(fields) == 0 {
		return fmt.Errorf("%s", banner)
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(banner)
	for _, k := range keys {
		fmt.Fprintf(&b, "\n  %s: %s", k, fields[k])
	}
	return fmt.Errorf("%s", b.String())
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// listFlags are the paging flags shared by every list command.
type listFlags struct {
	page   int
	size   int
	search string
	status string
}

func (f *listFlags) register(cmd *cobra.Command, statusFlag, statusUsage string) {
	cmd.Flags().IntVar(&f.page, "page", 1, "page number, starting at 1")
	cmd.Flags().IntVar(&f.size, "size", 0, "page size (default from config)")
	cmd.Flags().StringVar(&f.search, "search", "", "search term")
	if statusFlag != "" {
		cmd.Flags().StringVar(&f.status, statusFlag, "", statusUsage)
	}
}

func (f *listFlags) query() screen.Query {
	size := f.size
	if size <= 0 {
		size = pageSize()
	}
	return screen.Query{Page: f.page - 1, Size: size, Search: f.search, Status: strings.ToUpper(f.status)}
}

// loadList fetches one page through a list screen.
func loadList[T any](ctx context.Context, cfg screen.ListConfig[T], q screen.Query) (screen.ListView[T], error) {
	cfg.Logger = log
	cfg.PageSize = q.Size
	list := screen.NewList(cfg)
	defer list.Close()

	if q.Page < 0 {
		return screen.ListView[T]{}, client.ErrInvalidPagination
	}
	list.SetQuery(q)
	if err := list.Load(ctx); err != nil {
		return list.View(), fmt.Errorf("%s", list.View().Banner)
	}
	return list.View(), nil
}

// columns describes the table of one entity
type columns[T any] struct {
	headers []string
	row     func(T) []string
	id      func(T) int64
}

// renderList prints a list view as a table or in the requested format.
func renderList[T any](cmd *cobra.Command, view screen.ListView[T], cols columns[T]) error {
	out := cmd.OutOrStdout()
	if getOutputFormat() != "table" {
		return printOutput(out, view.Items)
	}
	renderTable(out, view, cols)
	return nil
}

func renderTable[T any](out io.Writer, view screen.ListView[T], cols columns[T]) {
	if view.Banner != "" {
		fmt.Fprintf(out, "[!] %s\n", view.Banner)
	}
	if view.Empty {
		fmt.Fprintln(out, view.EmptyMessage)
		return
	}

	t := NewTable(out, cols.headers...)
	for _, item := range view.Items {
		t.AddRow(cols.row(item)...)
	}
	t.Render()
	fmt.Fprintf(out, "\nPágina %d de %d (%d registros)\n", view.Query.Page+1, view.TotalPages, view.TotalElements)
}

func newDeleteCmd[T any](noun string, cfg func(*client.Client) screen.ListConfig[T]) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a " + noun,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var c screen.Confirmation[int64]
			if err := confirm(cmd, &c, id, fmt.Sprintf("Excluir %s %d?", noun, id), yes); err != nil {
				return err
			}

			lc := cfg(apiClient)
			if err := lc.Delete(context.Background(), id); err != nil {
				return fmt.Errorf("%s", apperrors.UserMessage(err, lc.DeleteError))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d excluído\n", noun, id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
