package iocache

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gndesc/pkg/errcode"
)

func cacheOpenError(dir string, err error) error {
	msg := "Cannot open parse cache at <em>%s</em>"
	vars := []any{dir}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CacheOpenError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot open parse cache: %w",
			fn, err),
	}
}

func cacheReadError(key string, err error) error {
	msg := "Cannot read <em>%s</em> from parse cache"
	vars := []any{key}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CacheReadError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot read parse cache: %w",
			fn, err),
	}
}

func cacheWriteError(key string, err error) error {
	msg := "Cannot store <em>%s</em> in parse cache"
	vars := []any{key}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CacheWriteError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot store in parse cache: %w",
			fn, err),
	}
}
