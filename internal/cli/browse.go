package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	apperrors "github.com/fitpay/fitpay-admin/internal/pkg/errors"
	"github.com/fitpay/fitpay-admin/internal/screen"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const browseHelp = `Digite para buscar. Comandos:
  :n / :p        próxima / página anterior
  :g N           ir para a página N
  :s STATUS      filtrar (vazio remove o filtro)
  :c             limpar a busca
  :d ID          excluir com confirmação
  :h             ajuda
  :q             sair`

func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "browse <student|plan|address|enrollment|payment|cashflow>",
		Short:     "Browse a list interactively with search-as-you-type",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"student", "plan", "address", "enrollment", "payment", "cashflow"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			debounce := viper.GetDuration("search_debounce")

			switch args[0] {
			case "student", "aluno":
				return browse(ctx, cmd, screen.StudentsConfig(apiClient), studentColumns, debounce)
			case "plan", "plano":
				return browse(ctx, cmd, screen.PlansConfig(apiClient), planColumns, debounce)
			case "address", "endereco":
				return browse(ctx, cmd, screen.AddressesConfig(apiClient), addressColumns, debounce)
			case "enrollment", "matricula":
				return browse(ctx, cmd, screen.EnrollmentsConfig(apiClient), enrollmentColumns, debounce)
			case "payment", "pagamento":
				return browse(ctx, cmd, screen.PaymentsConfig(apiClient), paymentColumns, debounce)
			case "cashflow", "movimentacao":
				return browse(ctx, cmd, screen.CashFlowConfig(apiClient), cashFlowColumns, debounce)
			default:
				return fmt.Errorf("unknown entity %q", args[0])
			}
		},
	}
}

// browser renders a list screen each time a fetch completes.
type browser[T any] struct {
	out  io.Writer
	cols columns[T]

	mu         sync.Mutex
	wasLoading bool
}

func (b *browser[T]) onChange(v screen.ListView[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()

	finished := b.wasLoading && !v.Loading
	b.wasLoading = v.Loading
	if !finished {
		return
	}
	renderTable(b.out, v, b.cols)
	if v.Query.Search != "" || v.Query.Status != "" {
		fmt.Fprintf(b.out, "busca: %q  filtro: %q\n", v.Query.Search, v.Query.Status)
	}
	fmt.Fprint(b.out, "> ")
}

func (b *browser[T]) print(format string, args ...interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fmt.Fprintf(b.out, format, args...)
}

func browse[T any](ctx context.Context, cmd *cobra.Command, cfg screen.ListConfig[T], cols columns[T], debounce time.Duration) error {
	b := &browser[T]{out: cmd.OutOrStdout(), cols: cols}

	cfg.Logger = log
	cfg.PageSize = pageSize()
	cfg.Debounce = debounce
	cfg.OnChange = b.onChange
	list := screen.NewList(cfg)
	defer list.Close()

	b.print("%s\n", browseHelp)
	_ = list.Load(ctx)

	in := bufio.NewReader(cmd.InOrStdin())
	for {
		line, err := in.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line != "" || err == nil {
			if quit := b.handle(ctx, list, in, line); quit {
				return nil
			}
		}
		if err != nil {
			// End of input: let a pending search finish first.
			time.Sleep(debounce)
			return nil
		}
	}
}

// handle runs one input line and reports whether the operator quit.
func (b *browser[T]) handle(ctx context.Context, list *screen.List[T], in *bufio.Reader, line string) bool {
	if !strings.HasPrefix(line, ":") {
		list.SetSearch(ctx, line)
		return false
	}

	fields := strings.Fields(line)
	arg := ""
	if len(fields) > 1 {
		arg = strings.Join(fields[1:], " ")
	}

	switch fields[0] {
	case ":q":
		return true
	case ":h":
		b.print("%s\n> ", browseHelp)
	case ":n":
		_ = list.Next(ctx)
	case ":p":
		_ = list.Prev(ctx)
	case ":g":
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 {
			b.print("página inválida: %q\n> ", arg)
			return false
		}
		_ = list.GoToPage(ctx, n-1)
	case ":s":
		list.SetStatus(ctx, strings.ToUpper(arg))
	case ":c":
		list.SetSearch(ctx, "")
	case ":d":
		b.delete(ctx, list, in, arg)
	default:
		b.print("comando desconhecido %q (:h para ajuda)\n> ", fields[0])
	}
	return false
}

func (b *browser[T]) delete(ctx context.Context, list *screen.List[T], in *bufio.Reader, arg string) {
	id, err := parseID(arg)
	if err != nil {
		b.print("%v\n> ", err)
		return
	}
	if err := list.RequestDelete(id); err != nil {
		b.print("%v\n> ", err)
		return
	}

	b.mu.Lock()
	ok := askYes(in, b.out, fmt.Sprintf("Excluir %d?", id))
	b.mu.Unlock()

	if !ok {
		_ = list.CancelDelete()
		b.print("exclusão cancelada\n> ")
		return
	}
	if err := list.ConfirmDelete(ctx); err != nil {
		b.print("[!] %s\n> ", apperrors.UserMessage(err, list.View().Banner))
	}
}
