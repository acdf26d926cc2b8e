package nfs

import (
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/osfs"
	nfsc "github.com/willscott/go-nfs-client/nfs"
	"github.com/willscott/go-nfs-client/nfs/rpc"

	"cors-https-server/rootfs"
)

func TestStartNFSServerAcceptsConnections(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(dir+"/hello.txt", []byte("hello"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ln, err := StartNFSServer("127.0.0.1:0", rootfs.New(dir), nil)
	if err != nil {
		t.Fatalf("StartNFSServer: %v", err)
	}
	defer ln.Close()

	c, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("dial nfsd: %v", err)
	}
	c.Close()
}

func TestNFSExportReadsAndRefusesWrites(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "hello.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ln, err := StartNFSServer("127.0.0.1:0", rootfs.New(dir), nil)
	if err != nil {
		t.Fatalf("StartNFSServer: %v", err)
	}
	defer ln.Close()

	c, err := rpc.DialTCP(ln.Addr().Network(), ln.Addr().String(), false)
	if err != nil {
		t.Fatalf("DialTCP: %v", err)
	}
	defer c.Close()

	var mounter nfsc.Mount
	mounter.Client = c
	target, err := mounter.Mount("/", rpc.AuthNull)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	defer func() { _ = mounter.Unmount() }()

	f, err := target.Open("/hello.txt")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	b, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "hello" {
		t.Fatalf("read got=%q want=%q", b, "hello")
	}

	if _, err := target.Create("/new.txt", 0o644); err == nil {
		t.Fatalf("Create on a read-only export succeeded")
	}
	if _, err := os.Stat(filepath.Join(dir, "new.txt")); !os.IsNotExist(err) {
		t.Fatalf("new.txt written to disk, stat err=%v", err)
	}
}

func TestStartNFSServerRefusesWritableRoot(t *testing.T) {
	if _, err := StartNFSServer("127.0.0.1:0", osfs.New(t.TempDir()), nil); err == nil {
		t.Fatalf("exported a writable filesystem")
	}
}

func TestStartNFSServerNoRoot(t *testing.T) {
	if _, err := StartNFSServer("127.0.0.1:0", nil, nil); err == nil {
		t.Fatalf("started without a root")
	}
}
