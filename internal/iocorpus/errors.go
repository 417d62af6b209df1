package iocorpus

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gndesc/pkg/errcode"
)

func descriptionsMissingError(path string, err error) error {
	msg := "Cannot find descriptions file <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DescriptionsFileMissingError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot open descriptions file: %w",
			fn, err),
	}
}

func descriptionsReadError(path string, err error) error {
	msg := "Cannot read descriptions file <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DescriptionsFileReadError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot read descriptions file: %w",
			fn, err),
	}
}

func descriptionsLineError(path string, line int, err error) error {
	msg := "Malformed JSON on line <em>%d</em> of <em>%s</em>"
	vars := []any{line, path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DescriptionsLineError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: malformed descriptions line %d: %w",
			fn, line, err),
	}
}

func tagsMissingError(path string, err error) error {
	msg := "Cannot find tags file <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TagsFileMissingError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot open tags file: %w",
			fn, err),
	}
}

func tagsReadError(path string, err error) error {
	msg := "Cannot read tags file <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TagsFileReadError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot read tags file: %w",
			fn, err),
	}
}
