package kv

import "github.com/nextlevelbuilder/anyctl/internal/config"

func configForTest(driver, dir string) config.StorageConfig {
	return config.StorageConfig{Driver: driver, DataDir: dir}
}
