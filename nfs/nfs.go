// Package nfs exports the served tree read-only over NFSv3.
package nfs

import (
	"errors"
	"log"
	"net"

	"github.com/go-git/go-billy/v5"
	gonfs "github.com/willscott/go-nfs"
	nfshelper "github.com/willscott/go-nfs/helpers"
)

// handleCacheSize bounds the number of file handles remembered between calls.
const handleCacheSize = 1024

// StartNFSServer serves root over NFSv3/TCP with AUTH_NULL. Mutating
// procedures fail with NFS3ERR_ROFS since root reports no write capability.
// Mount with e.g. "mount -o port=N,mountport=N,nfsvers=3,tcp,nolock".
func StartNFSServer(addr string, root billy.Filesystem, logger *log.Logger) (net.Listener, error) {
	if addr == "" {
		addr = ":2049"
	}
	if root == nil {
		return nil, errors.New("nfs: no root filesystem")
	}
	if billy.CapabilityCheck(root, billy.WriteCapability) {
		return nil, errors.New("nfs: refusing to export a writable filesystem")
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	handler := nfshelper.NewCachingHandler(nfshelper.NewNullAuthHandler(root), handleCacheSize)
	go func() {
		if logger != nil {
			logger.Printf("nfsd v3 listening on %s base=%q", ln.Addr(), root.Root())
		}
		if err := gonfs.Serve(ln, handler); err != nil && !errors.Is(err, net.ErrClosed) {
			if logger != nil {
				logger.Printf("nfsd serve error: %v", err)
			}
		}
	}()
	return ln, nil
}
