package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/tasks/internal/model"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeNew    Type = "new"
	TypeOpen   Type = "open"
	TypeDrop   Type = "drop"
	TypeDone   Type = "done"
	TypeUndo   Type = "undo"
	TypeRemove Type = "rm"
	TypeRename Type = "rename"
	TypeDesc   Type = "desc"
	TypeTag    Type = "tag"
	TypeFind   Type = "find"
	TypeClear  Type = "clear"
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

// AddArgs holds the task name and any #tags given after it.
type AddArgs struct {
	Name string
	Tags []string
}

// ListArgs names a list. For drop an empty Name means the open list.
type ListArgs struct {
	Name string
}

type TargetArgs struct {
	ID int
}

type DescArgs struct {
	ID   int
	Text string
}

type TagArgs struct {
	ID   int
	Tags []string
}

type FindArgs struct {
	Term string
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	List   *ListArgs
	Target *TargetArgs
	Desc   *DescArgs
	Tag    *TagArgs
	Find   *FindArgs
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
	head := Type(strings.ToLower(parts[0]))
	args := parts[1:]

	switch head {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeNew, TypeOpen, TypeRename:
		return parseList(input, head, args, true)
	case TypeDrop:
		return parseList(input, head, args, false)
	case TypeDone, TypeUndo, TypeRemove:
		return parseTarget(input, head, args)
	case TypeDesc:
		return parseDesc(input, args)
	case TypeTag:
		return parseTag(input, args)
	case TypeFind:
		return parseFind(input, args)
	case TypeClear:
		return Command{Type: TypeClear, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	words := make([]string, 0, len(args))
	tags := make([]string, 0)
	for _, arg := range args {
		if tag, ok := strings.CutPrefix(arg, "#"); ok && tag != "" {
			tags = append(tags, tag)
			continue
		}
		words = append(words, arg)
	}
	name := strings.TrimSpace(strings.Join(words, " "))
	if name == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a task name"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Name: name, Tags: tags}}, nil
}

func parseList(raw string, typ Type, args []string, required bool) (Command, error) {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		if required {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires a list name", typ)}
		}
		return Command{Type: typ, Raw: raw, List: &ListArgs{}}, nil
	}
	if err := model.ValidateListName(name); err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: err.Error()}
	}
	return Command{Type: typ, Raw: raw, List: &ListArgs{Name: name}}, nil
}

func parseTarget(raw string, typ Type, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires a task id", typ)}
	}
	id, err := parseID(args[0])
	if err != nil {
		return Command{}, err
	}
	return Command{Type: typ, Raw: raw, Target: &TargetArgs{ID: id}}, nil
}

func parseDesc(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "desc requires a task id"}
	}
	id, err := parseID(args[0])
	if err != nil {
		return Command{}, err
	}
	return Command{Type: TypeDesc, Raw: raw, Desc: &DescArgs{ID: id, Text: strings.Join(args[1:], " ")}}, nil
}

func parseTag(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "tag requires a task id"}
	}
	id, err := parseID(args[0])
	if err != nil {
		return Command{}, err
	}
	return Command{Type: TypeTag, Raw: raw, Tag: &TagArgs{ID: id, Tags: model.SplitTags(strings.Join(args[1:], " "))}}, nil
}

func parseFind(raw string, args []string) (Command, error) {
	term := strings.TrimSpace(strings.Join(args, " "))
	if term == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "find requires a search term"}
	}
	return Command{Type: TypeFind, Raw: raw, Find: &FindArgs{Term: term}}, nil
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(arg, "#"))
	if err != nil || id < 0 {
		return 0, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid task id: %s", arg)}
	}
	return id, nil
}
