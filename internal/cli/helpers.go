package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/ftoledo/fiberbudget/internal/catalog"
	"github.com/ftoledo/fiberbudget/internal/session"
	"github.com/ftoledo/fiberbudget/internal/store"
	"github.com/ftoledo/fiberbudget/internal/validate"
)

// newFormatter builds the output formatter for a command invocation.
// Diagnostic output goes to stderr so JSON on stdout stays parseable.
func newFormatter(cmd *cobra.Command, opts *RootOptions) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// openStore opens the configured database, creating it on first use.
func openStore(opts *RootOptions) (*store.Store, error) {
	st, err := store.Open(opts.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("failed to open database %s", opts.Database), err)
	}
	return st, nil
}

// closeStore closes st, logging rather than failing the command when the
// close itself errors.
func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

// loadCatalog returns the splitter catalogue: the directory from
// --catalog when given, the embedded default otherwise.
func loadCatalog(opts *RootOptions) (*catalog.Catalog, error) {
	if opts.CatalogDir == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.LoadDir(opts.CatalogDir)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load splitter catalogue", err)
	}
	return cat, nil
}

// credentials are the --user/--password pair shared by every command
// that acts on the store.
type credentials struct {
	User     string
	Password string
}

// addCredentialFlags registers --user and --password and marks both
// required.
func addCredentialFlags(cmd *cobra.Command, creds *credentials) {
	cmd.Flags().StringVarP(&creds.User, "user", "u", "", "username (required)")
	cmd.Flags().StringVarP(&creds.Password, "password", "p", "", "password (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("password")
}

// login authenticates creds against the store and returns a live
// session. Authentication failure is a domain failure (exit 1), printed
// through the formatter before the error is returned.
func login(cmd *cobra.Command, st *store.Store, creds credentials, f *OutputFormatter) (*session.Session, error) {
	sess := session.New(st)
	if _, err := sess.Login(cmd.Context(), creds.User, creds.Password); err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			return nil, outputError(f, ExitFailure, ErrCodeAuth, err.Error(), nil)
		}
		return nil, WrapExitError(ExitCommandError, "login failed", err)
	}
	return sess, nil
}

// outputError writes the error through the formatter and returns the
// matching ExitError, mirroring the formatter-then-exit-code convention
// every command follows.
func outputError(f *OutputFormatter, exitCode int, errCode, message string, details interface{}) error {
	_ = f.Error(errCode, message, details)
	return NewExitError(exitCode, fmt.Sprintf("%s: %s", errCode, message))
}

// domainError maps errors from the session and store layers to CLI
// error output. Returns nil when err is nil.
func domainError(f *OutputFormatter, err error) error {
	if err == nil {
		return nil
	}

	var fieldErr *validate.FieldError
	switch {
	case errors.As(err, &fieldErr):
		return outputError(f, ExitFailure, ErrCodeValidation, fieldErr.Message, map[string]string{"field": fieldErr.Field})
	case errors.Is(err, session.ErrInvalidCredentials),
		errors.Is(err, session.ErrNotLoggedIn),
		errors.Is(err, session.ErrForbidden),
		errors.Is(err, session.ErrSelfTarget):
		return outputError(f, ExitFailure, ErrCodeAuth, err.Error(), nil)
	case errors.Is(err, store.ErrNotFound):
		return outputError(f, ExitFailure, ErrCodeNotFound, err.Error(), nil)
	case errors.Is(err, store.ErrDuplicate):
		return outputError(f, ExitFailure, ErrCodeConflict, err.Error(), nil)
	default:
		_ = f.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "command failed", err)
	}
}

// calculationView is the JSON shape of one stored calculation.
type calculationView struct {
	ID            int64   `json:"id,omitempty"`
	ProjectName   string  `json:"project_name"`
	Distance      float64 `json:"distance_km"`
	SplitterLoss1 float64 `json:"splitter_loss1_db"`
	Splitters1    int     `json:"splitters1"`
	SplitterLoss2 float64 `json:"splitter_loss2_db"`
	Splitters2    int     `json:"splitters2"`
	FusionSplices int     `json:"fusion_splices"`
	FinalSignal   float64 `json:"final_signal_db"`
	CalculatedAt  string  `json:"calculated_at,omitempty"`
	CalculatedBy  string  `json:"calculated_by,omitempty"`
}

// calculationOf builds an unsaved calculation record from validated
// fields, for output paths that never touch the store.
func calculationOf(f validate.Fields, final float64) store.Calculation {
	return store.Calculation{
		ProjectName:   f.ProjectName,
		Distance:      f.Distance,
		SplitterLoss1: f.SplitterLoss1,
		Splitters1:    f.Splitters1,
		SplitterLoss2: f.SplitterLoss2,
		Splitters2:    f.Splitters2,
		FusionSplices: f.FusionSplices,
		FinalSignal:   final,
	}
}

func viewOf(c store.Calculation) calculationView {
	v := calculationView{
		ID:            c.ID,
		ProjectName:   c.ProjectName,
		Distance:      c.Distance,
		SplitterLoss1: c.SplitterLoss1,
		Splitters1:    c.Splitters1,
		SplitterLoss2: c.SplitterLoss2,
		Splitters2:    c.Splitters2,
		FusionSplices: c.FusionSplices,
		FinalSignal:   c.FinalSignal,
		CalculatedBy:  c.CalculatedBy,
	}
	if !c.CalculatedAt.IsZero() {
		v.CalculatedAt = c.CalculatedAt.Format(time.RFC3339)
	}
	return v
}
