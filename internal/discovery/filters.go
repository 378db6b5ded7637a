package discovery

import (
	"path/filepath"
	"strings"
)

// binaryExtensions are never checked, even when listed in file_extensions.
var binaryExtensions = map[string]bool{
	// images
	"jpg": true, "jpeg": true, "png": true, "gif": true, "bmp": true, "ico": true, "svg": true, "webp": true,
	// audio / video
	"mp3": true, "mp4": true, "avi": true, "mov": true, "wmv": true, "flv": true, "webm": true,
	// archives
	"zip": true, "tar": true, "gz": true, "bz2": true, "xz": true, "7z": true, "rar": true,
	// executables and libraries
	"exe": true, "dll": true, "so": true, "dylib": true, "a": true, "o": true,
	// binary data
	"bin": true, "dat": true, "db": true, "sqlite": true,
	// documents
	"pdf": true, "doc": true, "docx": true, "xls": true, "xlsx": true,
	// jvm / python artifacts
	"class": true, "jar": true, "war": true, "pyc": true, "pyo": true,
	// fonts
	"woff": true, "woff2": true, "ttf": true, "otf": true, "eot": true,
}

// IsBinaryExtension reports whether ext (without dot, any case) is on the
// binary denylist.
func IsBinaryExtension(ext string) bool {
	return binaryExtensions[strings.ToLower(ext)]
}

// extension returns the lowercased extension of p without its dot. Dotfiles
// such as ".bashrc" and names ending in a dot have no extension.
func extension(p string) string {
	name := filepath.Base(p)
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

// allowedExtension applies the extension policy: denylist first, then the
// allow-list when one is configured. Files without an extension pass.
func allowedExtension(p string, allow map[string]bool) bool {
	ext := extension(p)
	if ext == "" {
		return true
	}
	if binaryExtensions[ext] {
		return false
	}
	if len(allow) > 0 {
		return allow[ext]
	}
	return true
}

func isHidden(p string) bool {
	return strings.HasPrefix(filepath.Base(p), ".")
}

// hasGlobMeta reports whether s contains glob syntax. Arguments without it
// are always treated as literal paths.
func hasGlobMeta(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}
