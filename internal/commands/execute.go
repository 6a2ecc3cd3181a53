package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add    func(AddArgs) (Result, error)
	New    func(ListArgs) (Result, error)
	Open   func(ListArgs) (Result, error)
	Drop   func(ListArgs) (Result, error)
	Rename func(ListArgs) (Result, error)
	Done   func(TargetArgs) (Result, error)
	Undo   func(TargetArgs) (Result, error)
	Remove func(TargetArgs) (Result, error)
	Desc   func(DescArgs) (Result, error)
	Tag    func(TagArgs) (Result, error)
	Find   func(FindArgs) (Result, error)
	Clear  func() (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return missing(cmd.Type)
		}
		return handlers.Add(*cmd.Add)
	case TypeNew, TypeOpen, TypeDrop, TypeRename:
		h := map[Type]func(ListArgs) (Result, error){
			TypeNew:    handlers.New,
			TypeOpen:   handlers.Open,
			TypeDrop:   handlers.Drop,
			TypeRename: handlers.Rename,
		}[cmd.Type]
		if h == nil {
			return missing(cmd.Type)
		}
		return h(*cmd.List)
	case TypeDone, TypeUndo, TypeRemove:
		h := map[Type]func(TargetArgs) (Result, error){
			TypeDone:   handlers.Done,
			TypeUndo:   handlers.Undo,
			TypeRemove: handlers.Remove,
		}[cmd.Type]
		if h == nil {
			return missing(cmd.Type)
		}
		return h(*cmd.Target)
	case TypeDesc:
		if handlers.Desc == nil {
			return missing(cmd.Type)
		}
		return handlers.Desc(*cmd.Desc)
	case TypeTag:
		if handlers.Tag == nil {
			return missing(cmd.Type)
		}
		return handlers.Tag(*cmd.Tag)
	case TypeFind:
		if handlers.Find == nil {
			return missing(cmd.Type)
		}
		return handlers.Find(*cmd.Find)
	case TypeClear:
		if handlers.Clear == nil {
			return missing(cmd.Type)
		}
		return handlers.Clear()
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func missing(t Type) (Result, error) {
	return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}
