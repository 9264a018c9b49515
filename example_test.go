package onshutdown_test

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/evan-idocoding/onshutdown"
)

func ExampleRun() {
	onshutdown.Run(func(s *onshutdown.Scope) {
		fmt.Println("start")
		s.OnShutdown(func() { fmt.Println("end") })
		fmt.Println("middle")
	}, onshutdown.WithLogger(nil))

	// Output:
	// start
	// middle
	// end
}

func ExampleScope_OnShutdown_order() {
	onshutdown.Run(func(s *onshutdown.Scope) {
		s.OnShutdown(func() { fmt.Println("g1") })
		s.OnShutdown(func() { fmt.Println("g2") })
	}, onshutdown.WithLogger(nil))

	// Output:
	// g2
	// g1
}

func ExampleBlock() {
	onshutdown.Run(func(s *onshutdown.Scope) {
		s.OnShutdown(onshutdown.Block(
			func() { fmt.Println("shut") },
			func() { fmt.Println("down") },
			func() { fmt.Println("with") },
			func() { fmt.Println("success") },
		))
		fmt.Println("registered on_shutdown")
	}, onshutdown.WithLogger(nil))

	// Output:
	// registered on_shutdown
	// shut
	// down
	// with
	// success
}

func ExampleOnShutdownMove() {
	stop := new(atomic.Bool)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for !stop.Load() {
			runtime.Gosched()
		}
	}()

	onshutdown.Run(func(s *onshutdown.Scope) {
		onshutdown.OnShutdownMove(s, stop, func(stop *atomic.Bool) {
			stop.Store(true)
			wg.Wait()
			fmt.Printf("stop=%v\n", stop.Load())
		})
	}, onshutdown.WithLogger(nil))

	// Output:
	// stop=true
}
