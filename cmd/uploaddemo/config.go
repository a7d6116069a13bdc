package main

import (
	"github.com/zeromicro/go-zero/core/stores/redis"
	"github.com/zeromicro/go-zero/rest"
)

// Config is the go-zero service config for the demo upload server.
type Config struct {
	rest.RestConf
	Cache   redis.RedisConf
	Storage StorageConf
}

// StorageConf describes how to reach the object storage backend.
type StorageConf struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	Bucket          string
	EndpointProxy   string
}
