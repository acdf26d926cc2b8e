package main

import (
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	httpx "cors-https-server/http"
	"cors-https-server/nfs"
	"cors-https-server/rootfs"
	"cors-https-server/tftp"
	"cors-https-server/utils"
)

func main() {
	addr := flag.String("addr", "0.0.0.0:8000", "HTTPS listen address")
	certFile := flag.String("cert", "cert.pem", "PEM certificate chain")
	keyFile := flag.String("key", "key.pem", "PEM private key")
	serial := flag.Bool("serial", true, "serve one connection at a time")
	// Optional read-only mirrors of the same tree
	tftpAddr := flag.String("tftp", "", "TFTP listen address (empty disables)")
	nfsAddr := flag.String("nfs", "", "NFSv3 listen address (empty disables)")
	flag.Parse()

	// The served tree is always the working directory.
	root := rootfs.New(".")

	loggerHTTPS := log.New(os.Stdout, "https ", log.LstdFlags)
	_, err := httpx.StartHTTPSServer(httpx.Config{
		Addr:      *addr,
		CertFile:  *certFile,
		KeyFile:   *keyFile,
		Root:      root,
		Serial:    *serial,
		AccessLog: os.Stderr,
	}, loggerHTTPS)
	if errors.Is(err, httpx.ErrCredentials) {
		log.Fatalf("start https failure: %v", err)
	}
	if err != nil {
		log.Fatalf("start https failure: %s: %v", utils.DescribeBindError(err), err)
	}

	if *tftpAddr != "" {
		loggerTFTP := log.New(os.Stdout, "tftp ", log.LstdFlags)
		if _, _, err := tftp.StartTFTPServer(*tftpAddr, root, loggerTFTP); err != nil {
			log.Fatalf("start tftp failure: %v", err)
		}
		loggerTFTP.Printf("TFTP mirror enabled on port %d", utils.MustPort(*tftpAddr))
	}

	if *nfsAddr != "" {
		loggerNFS := log.New(os.Stdout, "nfs ", log.LstdFlags)
		if _, err := nfs.StartNFSServer(*nfsAddr, root, loggerNFS); err != nil {
			log.Fatalf("start nfs failure: %v", err)
		}
		loggerNFS.Printf("NFS export enabled on port %d", utils.MustPort(*nfsAddr))
	}

	// Block until termination signal to keep goroutine servers alive
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop
	log.Printf("received signal %s, exiting", sig)
}
