package layout

import (
	"io/fs"

	osfs "github.com/gopherfs/fs/io/os"
	"github.com/gostdlib/base/context"

	"github.com/bearlytools/bindecl/errors"
	"github.com/bearlytools/bindecl/internal/conversions"
)

// LoadFile reads and parses the layout file at path in fsys. If fsys is nil, the OS
// filesystem is used.
func LoadFile(ctx context.Context, fsys fs.ReadFileFS, path string) (*File, error) {
	if fsys == nil {
		ofs, err := osfs.New()
		if err != nil {
			return nil, errors.E(ctx, errors.CatInternal, errors.TypeFS, err)
		}
		fsys = ofs
	}
	b, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errors.E(ctx, errors.CatUser, errors.TypeFS, err)
	}
	f, err := Parse(ctx, conversions.ByteSlice2String(b))
	if err != nil {
		return nil, errors.E(ctx, errors.CatUser, errors.TypeParameter, err)
	}
	return f, nil
}
