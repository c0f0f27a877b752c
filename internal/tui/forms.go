package tui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/dustin/go-humanize"

	"github.com/tturner/pclscope/internal/pstream/tags"
)

// SendRequest describes a job about to be sent to a printer.
type SendRequest struct {
	Printer string
	Address string
	File    string
	Size    int64
	// Dialects summarises the languages found in the job.
	Dialects string
}

// OpenRequest is filled by the open form.
type OpenRequest struct {
	Path    string
	Dialect string
}

func buildSendForm(req *SendRequest, printers []string, confirmed *bool) *huh.Form {
	var groups []*huh.Group
	if len(printers) > 1 {
		options := make([]huh.Option[string], len(printers))
		for i, p := range printers {
			options[i] = huh.NewOption(p, p)
		}
		groups = append(groups, huh.NewGroup(
			huh.NewSelect[string]().
				Title("Printer").
				Description("Target from the configuration file.").
				Key("printer").
				Options(options...).
				Value(&req.Printer),
		))
	}

	desc := fmt.Sprintf("%s (%s)", req.File, humanize.IBytes(uint64(req.Size)))
	if req.Dialects != "" {
		desc += "\n" + req.Dialects
	}
	groups = append(groups, huh.NewGroup(
		huh.NewConfirm().
			Title(sendTitle(req, len(printers) > 1)).
			Description(desc).
			Affirmative("Send").
			Negative("Cancel").
			Value(confirmed),
	))
	return huh.NewForm(groups...)
}

func sendTitle(req *SendRequest, choose bool) string {
	switch {
	case choose:
		return "Send to the selected printer?"
	case req.Address != "":
		return fmt.Sprintf("Send to %s (%s)?", req.Printer, req.Address)
	}
	return fmt.Sprintf("Send to %s?", req.Printer)
}

// ConfirmSend asks before a job goes to a printer. printers lists the
// configured targets; with more than one the user may change req.Printer.
// An aborted form counts as a refusal.
func ConfirmSend(req *SendRequest, printers []string) (bool, error) {
	confirmed := false
	if err := buildSendForm(req, printers, &confirmed).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return confirmed, nil
}

func buildOpenForm(req *OpenRequest) *huh.Form {
	dialects := []huh.Option[string]{huh.NewOption("Detect automatically", "auto")}
	for _, d := range tags.Dialects() {
		if d == tags.DialectPML {
			continue
		}
		dialects = append(dialects, huh.NewOption(d.String(), d.String()))
	}
	if req.Dialect == "" {
		req.Dialect = "auto"
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Print file").
				Description("Captured job (.prn, .pcl, .pxl) to classify.").
				Key("path").
				Validate(validateFile).
				Value(&req.Path),
			huh.NewSelect[string]().
				Title("Start dialect").
				Key("dialect").
				Options(dialects...).
				Value(&req.Dialect),
		),
	)
}

// AskOpen prompts for a file to view when none was given.
func AskOpen() (*OpenRequest, error) {
	req := &OpenRequest{}
	if err := buildOpenForm(req).Run(); err != nil {
		return nil, err
	}
	req.Path = strings.TrimSpace(req.Path)
	return req, nil
}

func validateFile(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("a file is required")
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot open %s", path)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}
