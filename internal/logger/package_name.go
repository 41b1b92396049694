package logger

import (
	"runtime"
	"strings"
)

type PackageNameResolver struct {
	BasePackage string
	Depth       int
}

// PackageName returns the package of the function calling the logger
// constructor, relative to BasePackage, ie "internal/server".
func (r *PackageNameResolver) PackageName() string {
	pc, _, _, _ := runtime.Caller(r.depth())
	// for example: github.com/cryptograss/stonemint/internal/server.NewRouter
	pcName := runtime.FuncForPC(pc).Name()
	rel := pcName
	if _, after, found := strings.Cut(pcName, r.BasePackage); found {
		rel = after
	}
	// drop the function name, keep the last path element intact
	slash := strings.LastIndex(rel, "/")
	if dot := strings.Index(rel[slash+1:], "."); dot >= 0 {
		rel = rel[:slash+1+dot]
	}
	return strings.Trim(rel, "/")
}

func (r *PackageNameResolver) depth() int {
	// 2 because it's used from inside logging code, we want the caller of that.
	if r.Depth == 0 {
		return 2
	}
	return r.Depth
}
