// Command uploaddemo wires the upload core to a real minio-go backed
// storage adapter behind a small go-zero REST surface. It is illustrative
// only; the upload contract lives entirely in the top-level packages.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest"
	"github.com/zeromicro/go-zero/rest/httpx"

	"github.com/nova-upload/uploadcore/config"
	"github.com/nova-upload/uploadcore/hookctx"
	"github.com/nova-upload/uploadcore/manager"
	"github.com/nova-upload/uploadcore/storage/memadapter"
	"github.com/nova-upload/uploadcore/storage/minioadapter"
	"github.com/nova-upload/uploadcore/storage/rediscache"
	"github.com/nova-upload/uploadcore/sweeper"
)

// objectURLSweepAge bounds how long a minted object URL may sit unused
// before the background sweeper releases it.
const objectURLSweepAge = 30 * time.Minute

var configFile = flag.String("f", "etc/uploaddemo.yaml", "the config file")

func main() {
	flag.Parse()

	var c Config
	conf.MustLoad(*configFile, &c, conf.UseEnv())

	storagePort, err := buildStoragePort(c.Storage)
	if err != nil {
		logx.Errorf("falling back to the in-memory adapter: %v", err)
		storagePort = memadapter.New(c.Storage.EndpointProxy)
	}
	if c.Cache.Host != "" {
		rdb := goredis.NewClient(&goredis.Options{Addr: c.Cache.Host, Password: c.Cache.Pass})
		storagePort = rediscache.New(storagePort, rdb)
	}

	mgr, err := manager.New(config.Config{
		MaxFiles:    20,
		MaxFileSize: 50 << 20,
		Thumbnails:  config.ThumbnailOptions{Enabled: true},
	}, storagePort)
	if err != nil {
		logx.Errorf("failed to construct manager: %v", err)
		return
	}

	mgr.On("file:added", func(payload any) {
		logx.Infof("file:added %v", payload)
	})
	mgr.On("upload:complete", func(payload any) {
		logx.Infof("upload:complete %v", payload)
	})

	sw := sweeper.New(mgr.Tracker(), mgr.LiveFileIDs, objectURLSweepAge)
	if err := sw.Start("@every 5m"); err != nil {
		logx.Errorf("failed to start the object URL sweeper: %v", err)
	}
	defer sw.Stop()

	server := rest.MustNewServer(c.RestConf)
	defer server.Stop()

	httpx.SetOkHandler(func(_ context.Context, body any) any { return body })
	registerHandlers(server, mgr)

	fmt.Printf("Starting uploaddemo at %s:%d...\n", c.Host, c.Port)
	server.Start()
}

func buildStoragePort(sc StorageConf) (hookctx.StoragePort, error) {
	if sc.Endpoint == "" {
		return nil, fmt.Errorf("no storage endpoint configured")
	}
	return minioadapter.New(minioadapter.Config{
		Endpoint:        sc.Endpoint,
		AccessKeyID:     sc.AccessKeyID,
		SecretAccessKey: sc.SecretAccessKey,
		UseSSL:          sc.UseSSL,
		Bucket:          sc.Bucket,
		EndpointProxy:   sc.EndpointProxy,
	})
}

func registerHandlers(server *rest.Server, mgr *manager.Manager) {
	server.AddRoute(rest.Route{
		Method:  http.MethodPost,
		Path:    "/upload",
		Handler: uploadHandler(mgr),
	})
	server.AddRoute(rest.Route{
		Method:  http.MethodGet,
		Path:    "/files",
		Handler: listHandler(mgr),
	})
}
