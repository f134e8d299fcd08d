package python

// stdlibModules lists the top-level standard library modules the import
// classifier recognizes. Unknown modules classify as third-party, which
// errs on the side of the later group.
var stdlibModules = map[string]bool{
	"abc": true, "argparse": true, "array": true, "ast": true,
	"asyncio": true, "base64": true, "binascii": true, "bisect": true,
	"builtins": true, "calendar": true, "cgi": true, "collections": true,
	"concurrent": true, "configparser": true, "contextlib": true,
	"copy": true, "csv": true, "ctypes": true, "dataclasses": true,
	"datetime": true, "decimal": true, "difflib": true, "dis": true,
	"email": true, "enum": true, "errno": true, "fcntl": true,
	"fileinput": true, "fnmatch": true, "fractions": true,
	"functools": true, "gc": true, "getpass": true, "gettext": true,
	"glob": true, "gzip": true, "hashlib": true, "heapq": true,
	"hmac": true, "html": true, "http": true, "importlib": true,
	"inspect": true, "io": true, "ipaddress": true, "itertools": true,
	"json": true, "keyword": true, "linecache": true, "locale": true,
	"logging": true, "math": true, "mimetypes": true, "multiprocessing": true,
	"numbers": true, "operator": true, "os": true, "pathlib": true,
	"pickle": true, "platform": true, "pprint": true, "pwd": true,
	"queue": true, "random": true, "re": true, "secrets": true,
	"select": true, "shlex": true, "shutil": true, "signal": true,
	"site": true, "socket": true, "sqlite3": true, "ssl": true,
	"stat": true, "statistics": true, "string": true, "struct": true,
	"subprocess": true, "sys": true, "sysconfig": true, "tempfile": true,
	"textwrap": true, "threading": true, "time": true, "timeit": true,
	"token": true, "tokenize": true, "traceback": true, "types": true,
	"typing": true, "unicodedata": true, "unittest": true, "urllib": true,
	"uuid": true, "warnings": true, "weakref": true, "xml": true,
	"zipfile": true, "zlib": true, "zoneinfo": true,
}
