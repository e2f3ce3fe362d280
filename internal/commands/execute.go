package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add    func(AddArgs) (Result, error)
	Start  func(StartArgs) (Result, error)
	Done   func(DoneArgs) (Result, error)
	Edit   func(EditArgs) (Result, error)
	Delete func(DeleteArgs) (Result, error)
	Show   func(ShowArgs) (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "add handler not configured"}
		}
		return handlers.Add(*cmd.Add)
	case TypeStart:
		if handlers.Start == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "start handler not configured"}
		}
		return handlers.Start(*cmd.Start)
	case TypeDone:
		if handlers.Done == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "done handler not configured"}
		}
		return handlers.Done(*cmd.Done)
	case TypeEdit:
		if handlers.Edit == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "edit handler not configured"}
		}
		return handlers.Edit(*cmd.Edit)
	case TypeDelete:
		if handlers.Delete == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "delete handler not configured"}
		}
		return handlers.Delete(*cmd.Delete)
	case TypeShow:
		if handlers.Show == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "show handler not configured"}
		}
		return handlers.Show(*cmd.Show)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
