// Command stbweb serves a directory of characters over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"time"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/golang/glog"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	_ "golang.org/x/net/trace"

	"badc0de.net/pkg/go-stb/presets"
	"badc0de.net/pkg/go-stb/store"
	"badc0de.net/pkg/go-stb/web"
)

var (
	listenAddress  = flag.String("listen_address", ":8080", "http listen address for stbweb")
	storeDir       = flag.String("store_dir", "characters", "directory holding stored characters")
	presetBaseURL  = flag.String("preset_base_url", "", "URL under which preset characters are published as <name>.json; presets are not served when empty")
	debugWebServer = flag.String("debug_web_server_listen_address", "", "where the debug server will listen")
	watchInterval  = flag.Duration("watch_interval", 10*time.Second, "how often to look for characters changed by other writers")
)

func main() {
	flagutil.Parse()
	flag.Set("logtostderr", "true")

	st, err := store.NewDir(*storeDir)
	if err != nil {
		glog.Exitf("opening store: %v", err)
	}

	var pc *presets.Client
	if *presetBaseURL != "" {
		pc = presets.NewClient(*presetBaseURL)
	}

	if *debugWebServer != "" {
		// golang.org/x/net/trace registers /debug/requests and /debug/events on the default mux.
		http.HandleFunc("/debug/minimetrics", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, "runtime.NumGoroutine(): %d\n", runtime.NumGoroutine())
		})
		go func() {
			glog.Errorf("debug web server: %v", http.ListenAndServe(*debugWebServer, nil))
		}()
	}

	go store.Watch(context.Background(), st, *watchInterval, func(idx map[string]time.Time) {
		glog.Infof("stbweb: %s changed, now holding %d characters", st.Path(), len(idx))
	})

	r := mux.NewRouter()
	web.NewHandler(st, pc).RegisterRoutes(r)

	glog.Infof("stbweb: serving %s on %s", st.Path(), *listenAddress)
	glog.Fatal(http.ListenAndServe(*listenAddress, handlers.CombinedLoggingHandler(os.Stderr, handlers.CompressHandler(r))))
}
