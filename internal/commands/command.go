// Package commands parses and dispatches the slash-command palette.
// Parsing is pure string work; dispatch goes through a Handlers struct
// so the UI layer owns all state changes.
package commands

import (
	"fmt"
	"strconv"
	"strings"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeStart  Type = "start"
	TypeDone   Type = "done"
	TypeEdit   Type = "edit"
	TypeDelete Type = "delete"
	TypeShow   Type = "show"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Target names a task for start/done/edit/delete. ID zero means the
// currently nudged task.
type Target struct {
	ID int64
}

func (t Target) Current() bool { return t.ID == 0 }

type AddArgs struct {
	Title string
}

type StartArgs struct {
	Target Target
}

type DoneArgs struct {
	Target Target
}

// Field is the editable attribute: "title" or "minutes".
type EditArgs struct {
	Target Target
	Field  string
	Value  string
}

type DeleteArgs struct {
	Target Target
}

type ShowArgs struct {
	Subject string
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Start  *StartArgs
	Done   *DoneArgs
	Edit   *EditArgs
	Delete *DeleteArgs
	Show   *ShowArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeStart:
		return parseStart(input, args)
	case TypeDone:
		return parseDone(input, args)
	case TypeEdit:
		return parseEdit(input, args)
	case TypeDelete:
		return parseDelete(input, args)
	case TypeShow:
		return parseShow(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Title: title}}, nil
}

func parseStart(raw string, args []string) (Command, error) {
	target, err := parseTarget("start", args)
	if err != nil {
		return Command{}, err
	}
	return Command{Type: TypeStart, Raw: raw, Start: &StartArgs{Target: target}}, nil
}

func parseDone(raw string, args []string) (Command, error) {
	target, err := parseTarget("done", args)
	if err != nil {
		return Command{}, err
	}
	return Command{Type: TypeDone, Raw: raw, Done: &DoneArgs{Target: target}}, nil
}

func parseEdit(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "edit requires a field and a value"}
	}
	// The leading task reference is optional: "edit title x" edits the
	// current task, "edit 42 title x" edits task 42.
	target := Target{}
	if f := strings.ToLower(args[0]); f != "title" && f != "minutes" {
		parsed, err := parseTarget("edit", args[:1])
		if err != nil {
			return Command{}, err
		}
		target = parsed
		args = args[1:]
	}
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "edit requires a field and a value"}
	}
	field := strings.ToLower(args[0])
	if field != "title" && field != "minutes" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("edit field must be title or minutes, got %s", field)}
	}
	value := strings.TrimSpace(strings.Join(args[1:], " "))
	if value == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "edit requires a value"}
	}
	return Command{Type: TypeEdit, Raw: raw, Edit: &EditArgs{Target: target, Field: field, Value: value}}, nil
}

func parseDelete(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "delete requires a task id"}
	}
	target, err := parseTarget("delete", args)
	if err != nil {
		return Command{}, err
	}
	if target.Current() {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "delete requires an explicit task id"}
	}
	return Command{Type: TypeDelete, Raw: raw, Delete: &DeleteArgs{Target: target}}, nil
}

func parseShow(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "show requires a subject"}
	}
	subject := strings.ToLower(args[0])
	switch subject {
	case "tasks", "log", "status", "calendar", "help":
		return Command{Type: TypeShow, Raw: raw, Show: &ShowArgs{Subject: subject}}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown show subject: %s", subject)}
	}
}

// parseTarget reads an optional task reference: no argument or the word
// "current" means the nudged task, otherwise a positive numeric id.
func parseTarget(verb string, args []string) (Target, error) {
	if len(args) == 0 {
		return Target{}, nil
	}
	ref := strings.ToLower(args[0])
	if ref == "current" {
		return Target{}, nil
	}
	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil || id <= 0 {
		return Target{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s target must be a task id or current, got %s", verb, args[0])}
	}
	return Target{ID: id}, nil
}
