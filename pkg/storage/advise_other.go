//go:build !linux

package storage

import "os"

func adviseSequential(file *os.File) {}
