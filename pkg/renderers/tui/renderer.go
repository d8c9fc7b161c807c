// Package tui walks a wizard session in the terminal: one prompt per field,
// then a navigation menu, until the form is submitted or the user quits.
package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/validation"
	"github.com/goliatone/go-formwizard/pkg/values"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// Menu actions offered after each page.
const (
	ActionNext     = "Next"
	ActionPrevious = "Previous"
	ActionSubmit   = "Submit"
	ActionQuit     = "Quit"
)

// Renderer implements render.Renderer for terminal-driven sessions.
type Renderer struct {
	driver       PromptDriver
	out          io.Writer
	outputFormat OutputFormat
	theme        Theme
	logger       zerolog.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		theme:        DefaultTheme,
		logger:       zerolog.Nop(),
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if _, ok := ParseOutputFormat(string(r.outputFormat)); !ok {
		return nil, fmt.Errorf("tui: unsupported output format %q", r.outputFormat)
	}
	if r.driver == nil {
		r.driver = newSurveyDriver(r.out)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render runs the wizard from the active page and returns the serialized
// submission. Leaving through the menu yields ErrQuit.
func (r *Renderer) Render(ctx context.Context, session *wizard.Session, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}
	if session == nil {
		return nil, errors.New("tui: session is nil")
	}

	switch session.Status() {
	case wizard.StatusReady:
	case wizard.StatusFailed:
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+session.ErrorMessage()); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("tui: %w", session.LoadError())
	default:
		return nil, fmt.Errorf("tui: %w", wizard.ErrNotReady)
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		view := render.BuildView(session, opts)
		if view.QuestionID == "" {
			return nil, fmt.Errorf("tui: %w", wizard.ErrNoQuestions)
		}
		opts.FormErrors = nil

		if err := r.info(ctx, fmt.Sprintf("[%d/%d] %s", view.Position, view.Total, view.Title)); err != nil {
			return nil, err
		}
		for _, field := range view.Fields {
			if err := r.promptField(ctx, session, view.QuestionID, field); err != nil {
				return nil, err
			}
		}

		action, err := r.promptAction(ctx, view)
		if err != nil {
			return nil, err
		}
		r.logger.Debug().Str("question", view.QuestionID).Str("action", action).Msg("menu action")

		switch action {
		case ActionPrevious:
			session.Previous()
		case ActionNext:
			if !session.Next() {
				if err := r.reportErrors(ctx, session, opts); err != nil {
					return nil, err
				}
			}
		case ActionSubmit:
			sub, err := session.Submit()
			if err == nil {
				return r.serialize(sub)
			}
			var pageErr *validation.PageError
			if !errors.As(err, &pageErr) {
				return nil, fmt.Errorf("tui: submit: %w", err)
			}
			if err := r.reportErrors(ctx, session, opts); err != nil {
				return nil, err
			}
		case ActionQuit:
			return nil, ErrQuit
		}
	}
}

func (r *Renderer) promptField(ctx context.Context, session *wizard.Session, pageID string, field render.FieldView) error {
	message := r.theme.PromptPrefix + promptLabel(field.Label, field.Required)

	switch field.Input {
	case render.InputCheckbox:
		checked, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: message,
			Default: field.Checked,
			Help:    field.Error,
		})
		if err != nil {
			return err
		}
		return session.UpdateValue(pageID, field.ID, values.Flag(checked))

	case render.InputTextArea:
		text, err := r.driver.TextArea(ctx, TextAreaConfig{
			Message: message,
			Default: field.Value,
			Help:    field.Error,
		})
		if err != nil {
			return err
		}
		return session.UpdateValue(pageID, field.ID, values.Text(text))

	case render.InputRadio, render.InputSelect:
		value, err := r.promptChoice(ctx, message, field.Error, field.Options)
		if err != nil {
			return err
		}
		return session.UpdateValue(pageID, field.ID, values.Text(value))

	case render.InputAddress:
		for _, sub := range field.Subfields {
			value, err := r.promptSubfield(ctx, field, sub)
			if err != nil {
				return err
			}
			if err := session.UpdateAddressField(pageID, field.ID, sub.Key, value); err != nil {
				return err
			}
		}
		return nil

	default:
		text, err := r.driver.Input(ctx, InputConfig{
			Message: message,
			Default: field.Value,
			Help:    field.Error,
		})
		if err != nil {
			return err
		}
		return session.UpdateValue(pageID, field.ID, values.Text(strings.TrimSpace(text)))
	}
}

func (r *Renderer) promptSubfield(ctx context.Context, field render.FieldView, sub render.SubfieldView) (string, error) {
	message := r.theme.PromptPrefix + field.Label + " > " + promptLabel(sub.Label, sub.Required)
	if sub.Input == render.InputSelect {
		return r.promptChoice(ctx, message, sub.Error, sub.Options)
	}

	cfg := InputConfig{Message: message, Default: sub.Value, Help: sub.Error}
	if sub.Key == values.AddressZipCode {
		cfg.Validator = validateZip
	}
	text, err := r.driver.Input(ctx, cfg)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// validateZip lets a blank zip through so the page pass reports it as missing.
func validateZip(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" || validation.ValidZipCode(raw) {
		return nil
	}
	return errors.New(validation.ZipCodeMessage)
}

func (r *Renderer) promptChoice(ctx context.Context, message, help string, options []render.OptionView) (string, error) {
	if len(options) == 0 {
		return "", nil
	}
	labels := make([]string, len(options))
	selected := -1
	for i, opt := range options {
		labels[i] = opt.Label
		if opt.Selected {
			selected = i
		}
	}
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      message,
		Options:      labels,
		DefaultIndex: selected,
		Help:         help,
	})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(options) {
		return "", fmt.Errorf("tui: selection %d out of range", idx)
	}
	return options[idx].Value, nil
}

func (r *Renderer) promptAction(ctx context.Context, view render.View) (string, error) {
	actions := menuActions(view)
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      r.theme.PromptPrefix + "What next?",
		Options:      actions,
		DefaultIndex: 0,
	})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(actions) {
		return "", fmt.Errorf("tui: selection %d out of range", idx)
	}
	return actions[idx], nil
}

func menuActions(view render.View) []string {
	actions := make([]string, 0, 3)
	switch {
	case view.IsLast:
		actions = append(actions, ActionSubmit)
	case view.CanGoNext:
		actions = append(actions, ActionNext)
	}
	if view.CanGoPrevious {
		actions = append(actions, ActionPrevious)
	}
	return append(actions, ActionQuit)
}

// reportErrors prints the active page's messages. Submit may have moved the
// session to another page, so the view is rebuilt.
func (r *Renderer) reportErrors(ctx context.Context, session *wizard.Session, opts render.RenderOptions) error {
	view := render.BuildView(session, opts)
	r.logger.Debug().Str("question", view.QuestionID).Msg("page has errors")

	lines := []string{fmt.Sprintf("Please fix the errors on %q:", view.Title)}
	lines = append(lines, view.FormErrors...)
	for _, field := range view.Fields {
		if field.Error != "" {
			lines = append(lines, fmt.Sprintf("%s: %s", field.Label, field.Error))
		}
		for _, sub := range field.Subfields {
			if sub.Error != "" {
				lines = append(lines, fmt.Sprintf("%s > %s: %s", field.Label, sub.Label, sub.Error))
			}
		}
	}
	for _, line := range lines {
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+line); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Renderer) serialize(sub wizard.Submission) ([]byte, error) {
	r.logger.Info().Str("submission", sub.ID).Str("format", string(r.outputFormat)).Msg("serializing submission")
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(sub.Values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(sub)), nil
	default:
		return json.Marshal(sub)
	}
}

func promptLabel(label string, required bool) string {
	if required {
		return label + " *"
	}
	return label
}

func flattenForm(form values.Form) string {
	flattened := url.Values{}
	flatten(form, func(key, value string) {
		flattened.Set(key, value)
	})
	return flattened.Encode()
}

// flatten visits every value as page.field or page.field.subfield, in key order.
func flatten(form values.Form, emit func(key, value string)) {
	pages := make([]string, 0, len(form))
	for id := range form {
		pages = append(pages, id)
	}
	slices.Sort(pages)

	for _, pageID := range pages {
		page := form[pageID]
		fields := make([]string, 0, len(page))
		for id := range page {
			fields = append(fields, id)
		}
		slices.Sort(fields)

		for _, fieldID := range fields {
			prefix := pageID + "." + fieldID
			value := page[fieldID]
			if addr, ok := value.AsAddress(); ok {
				for _, key := range values.AddressFields {
					raw, _ := addr.Get(key)
					emit(prefix+"."+key, raw)
				}
				continue
			}
			emit(prefix, value.String())
		}
	}
}

func prettyPrint(sub wizard.Submission) string {
	var b strings.Builder
	fmt.Fprintf(&b, "submission=%s\n", sub.ID)
	fmt.Fprintf(&b, "submittedAt=%s\n", sub.SubmittedAt.UTC().Format(time.RFC3339))
	flatten(sub.Values, func(key, value string) {
		fmt.Fprintf(&b, "%s=%s\n", key, value)
	})
	return b.String()
}
