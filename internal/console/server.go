package console

import (
	"net/http"

	"github.com/fitpay/fitpay-admin/internal/address"
	"github.com/fitpay/fitpay-admin/internal/auth"
	"github.com/fitpay/fitpay-admin/internal/config"
	"github.com/fitpay/fitpay-admin/internal/dashboard"
	"github.com/fitpay/fitpay-admin/internal/enrollment"
	"github.com/fitpay/fitpay-admin/internal/pkg/logger"
	"github.com/fitpay/fitpay-admin/internal/pkg/utils"
	"github.com/fitpay/fitpay-admin/pkg/client"
)

// Deps are the collaborators of the console server
type Deps struct {
	Client    *client.Client
	CEP       address.Looker
	Auth      *auth.Authenticator
	Dashboard *dashboard.Service
	Logger    *logger.Logger
	Config    config.ConsoleConfig
	PageSize  int
}

// Server is the web console. Each request builds fresh screen state from its
// URL and form values, so the server itself holds no per-operator state.
type Server struct {
	client    *client.Client
	auth      *auth.Authenticator
	dashboard *dashboard.Service
	autofill  *address.Autofill
	workflow  *enrollment.Workflow
	log       *logger.Logger
	cfg       config.ConsoleConfig
	pageSize  int
	pages     *renderer
	resources []*resource
	done      chan struct{}
}

// New creates the console server.
func New(d Deps) (*Server, error) {
	log := d.Logger
	if log == nil {
		log = logger.Nop()
	}
	if d.Auth == nil {
		d.Auth = auth.NewAuthenticator("", "", "", 0)
	}
	if d.Dashboard == nil {
		d.Dashboard = dashboard.NewService(d.Client, log)
	}
	if d.PageSize <= 0 {
		d.PageSize = utils.DefaultPageSize
	}

	pages, err := newRenderer()
	if err != nil {
		return nil, err
	}

	s := &Server{
		client:    d.Client,
		auth:      d.Auth,
		dashboard: d.Dashboard,
		autofill:  address.NewAutofill(d.CEP, log),
		workflow:  enrollment.NewWorkflow(d.Client, log),
		log:       log.With("component", "console"),
		cfg:       d.Config,
		pageSize:  d.PageSize,
		pages:     pages,
		done:      make(chan struct{}),
	}
	s.resources = s.buildResources()
	return s, nil
}

// Close stops the background loops started by Handler.
func (s *Server) Close() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}
