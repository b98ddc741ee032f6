// Package statsview serves live charts of the emulator process (heap, GC,
// goroutines) through "github.com/go-echarts/statsview". The pprof handlers
// are served alongside at /debug/pprof/.
package statsview

import (
	"fmt"
	"io"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// DefaultAddr is used when Start is given an empty address.
const DefaultAddr = "localhost:12600"

// sample interval of the charts in milliseconds
const interval = 1000

// Server is a running statistics page.
type Server struct {
	addr string
	mgr  *statsview.ViewManager
}

// Start serves the charts at addr in the background and reports the page URL
// to out. The viewer configuration is process wide so only one Server should
// run at a time.
func Start(addr string, out io.Writer) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	viewer.SetConfiguration(viewer.WithAddr(addr), viewer.WithInterval(interval))

	s := &Server{addr: addr, mgr: statsview.New()}
	go s.mgr.Start()

	fmt.Fprintf(out, "stats server available at %s\n", s.URL())
	return s
}

// URL of the charts page.
func (s *Server) URL() string {
	return fmt.Sprintf("http://%s/debug/statsview", s.addr)
}

// Stop shuts the HTTP server down.
func (s *Server) Stop() {
	s.mgr.Stop()
}
