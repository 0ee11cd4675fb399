// Command stbssh plays stored character animations to SSH clients.
//
//	ssh -t -p 2222 host [character [animation]]
package main

import (
	"flag"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/gliderlabs/ssh"
	"github.com/golang/glog"

	"badc0de.net/pkg/go-stb/store"
)

var (
	listenAddress = flag.String("listen_address", ":2222", "ssh listen address for stbssh")
	hostKey       = flag.String("host_key", "", "path to the host key; a key is generated on each start when empty")
	storeDir      = flag.String("store_dir", "characters", "directory holding stored characters")
	zoom          = flag.Int("zoom", 1, "size of one character pixel in terminal half blocks")
)

func main() {
	flagutil.Parse()
	flag.Set("logtostderr", "true")

	st, err := store.NewDir(*storeDir)
	if err != nil {
		glog.Exitf("opening store: %v", err)
	}

	server := &ssh.Server{
		Addr: *listenAddress,
		Handler: func(sess ssh.Session) {
			handleSession(sess, st)
		},
	}
	if *hostKey != "" {
		if err := server.SetOption(ssh.HostKeyFile(*hostKey)); err != nil {
			glog.Exitf("setting host key: %v", err)
		}
	}

	glog.Infof("stbssh: serving %s on %s", st.Path(), *listenAddress)
	glog.Fatal(server.ListenAndServe())
}
