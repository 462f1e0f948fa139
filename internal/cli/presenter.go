package cli

import (
	"io"

	apperrors "github.com/agbru/easeplay/internal/errors"
	"github.com/agbru/easeplay/internal/orchestration"
	"github.com/agbru/easeplay/internal/ui"
)

// CLIResultPresenter implements orchestration.ResultPresenter for CLI output.
// Quiet mode prints the final value alone.
type CLIResultPresenter struct {
	Quiet bool
}

var _ orchestration.ResultPresenter = CLIResultPresenter{}

// PresentResult displays the outcome of a session.
func (p CLIResultPresenter) PresentResult(result orchestration.SessionResult, verbose bool, out io.Writer) {
	if p.Quiet {
		DisplayQuietResult(out, result)
		return
	}
	DisplayResult(result, verbose, out)
}

// HandleError reports err and returns the matching exit code.
func (CLIResultPresenter) HandleError(err error, out io.Writer) int {
	return apperrors.HandleError(err, out, CLIColorProvider{})
}

// CLIColorProvider implements apperrors.ColorProvider using the active theme.
type CLIColorProvider struct{}

var _ apperrors.ColorProvider = CLIColorProvider{}

func (CLIColorProvider) Red() string    { return ui.ColorRed() }
func (CLIColorProvider) Yellow() string { return ui.ColorYellow() }
func (CLIColorProvider) Reset() string  { return ui.ColorReset() }
