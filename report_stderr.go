package onshutdown

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"sync"
)

var stderrMu sync.Mutex

func reportPanicToStderr(info PanicInfo) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "onshutdown: panic")
	if info.Name != "" {
		fmt.Fprintf(&buf, " name=%q", info.Name)
	}
	fmt.Fprintf(&buf, " value=%v\n", info.Value)
	if len(info.Stack) > 0 {
		_, _ = buf.Write(info.Stack)
		if info.Stack[len(info.Stack)-1] != '\n' {
			_ = buf.WriteByte('\n')
		}
	}

	stderrMu.Lock()
	_, _ = os.Stderr.Write(buf.Bytes())
	stderrMu.Unlock()
}

func callErrorHandlerNoPanic(ctx context.Context, h ErrorHandler, info ErrorInfo) {
	defer func() {
		if p := recover(); p != nil {
			reportPanicToStderr(PanicInfo{
				Name:  info.Name,
				Value: fmt.Sprintf("onshutdown: error handler panicked: %v", p),
				Stack: debug.Stack(),
			})
		}
	}()
	h(ctx, info)
}

func callPanicHandlerNoPanic(ctx context.Context, h PanicHandler, info PanicInfo) {
	defer func() {
		if p := recover(); p != nil {
			reportPanicToStderr(PanicInfo{
				Name:  info.Name,
				Value: fmt.Sprintf("onshutdown: panic handler panicked: %v", p),
				Stack: debug.Stack(),
			})
		}
	}()
	h(ctx, info)
}

func observeNoPanic(o Observer, r Report) {
	defer func() {
		if p := recover(); p != nil {
			reportPanicToStderr(PanicInfo{
				Name:  r.Name,
				Value: fmt.Sprintf("onshutdown: observer panicked: %v", p),
				Stack: debug.Stack(),
			})
		}
	}()
	o.ObserveShutdown(r)
}
