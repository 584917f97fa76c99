// Package dist reads installed Python distributions off disk.
//
// # Overview
//
// A Python environment records what is installed as metadata directories
// inside each site-packages directory:
//
//   - *.dist-info (PEP 376): METADATA, RECORD, INSTALLER, entry_points.txt
//   - *.egg-info (legacy setuptools): PKG-INFO, requires.txt,
//     installed-files.txt
//
// [Scan] enumerates those directories and parses each into a
// [Distribution]. [Env.Snapshot] packages a scan into the index and
// metadata source the inspection engine consumes:
//
//	env := dist.Env{Roots: roots}
//	idx, src, err := env.Snapshot()
//
// # Environment Discovery
//
// [DefaultRoots] finds the active environment the way Python tooling
// does: $VIRTUAL_ENV first, then a .venv directory under the working
// directory. A directory counts as a virtual environment when its
// pyvenv.cfg parses; site-packages is located beneath it in both the
// POSIX (lib/pythonX.Y/site-packages) and Windows (Lib/site-packages)
// layouts.
//
// # Parsing Notes
//
// METADATA and PKG-INFO are RFC 822 header blocks. Scalar fields come
// from the header parser; the repeated Classifier headers are collected
// by a raw line scan so every occurrence is kept in file order.
// Requires-Dist values carry PEP 508 requirements whose "extra == x"
// markers assign them to optional groups; other environment markers are
// ignored for grouping. The legacy requires.txt encodes the same
// information with [section] headers instead of markers.
//
// Scanning never fails on a single bad entry: unparseable metadata
// directories are skipped and reported through the log callback.
package dist
