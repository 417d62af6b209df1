package ioweb

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gndesc/pkg/errcode"
)

func serverStartError(addr string, err error) error {
	msg := "Cannot serve HTTP on <em>%s</em>"
	vars := []any{addr}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ServerStartError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot serve HTTP on %s: %w",
			fn, addr, err),
	}
}
