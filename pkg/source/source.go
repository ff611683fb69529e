// Package source loads program files and decodes them to UTF-8 text.
package source

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/zurustar/bfi/pkg/fileutil"
)

// DefaultEncoding はエンコーディング未指定時に使う
const DefaultEncoding = "utf-8"

// File はデコード済みのソースファイルを表す
type File struct {
	Name     string // ファイル名
	Content  string // UTF-8に変換された内容
	Size     int64  // ファイルサイズ（バイト）
	Encoding string // 元のエンコーディング名
}

// Loader はソースファイルの読み込みを行う
type Loader struct {
	fsys     fs.FS
	encoding string
}

// NewLoader Loaderを作成
// encodingはWHATWGのラベル（utf-8, shift_jis, euc-jp, windows-1252 など）
func NewLoader(fsys fs.FS, encodingName string) *Loader {
	if encodingName == "" {
		encodingName = DefaultEncoding
	}
	return &Loader{
		fsys:     fsys,
		encoding: encodingName,
	}
}

// Load ファイル名（大文字小文字を無視）でソースを読み込みUTF-8に変換する
func (l *Loader) Load(name string) (*File, error) {
	enc, err := lookupEncoding(l.encoding)
	if err != nil {
		return nil, err
	}

	actual, err := fileutil.Resolve(l.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to find source %s: %w", name, err)
	}

	data, err := fs.ReadFile(l.fsys, actual)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	content, err := decode(data, enc)
	if err != nil {
		return nil, fmt.Errorf("failed to convert encoding: %w", err)
	}

	return &File{
		Name:     path.Base(actual),
		Content:  content,
		Size:     int64(len(data)),
		Encoding: l.encoding,
	}, nil
}

// LoadPath OSのファイルパスからソースを読み込む
func LoadPath(filePath, encodingName string) (*File, error) {
	dir, name := filepath.Split(filePath)
	if dir == "" {
		dir = "."
	}
	return NewLoader(os.DirFS(dir), encodingName).Load(name)
}

// lookupEncoding エンコーディング名を解決する
func lookupEncoding(name string) (encoding.Encoding, error) {
	enc, err := htmlindex.Get(strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", name, err)
	}
	return enc, nil
}

// decode 指定エンコーディングからUTF-8に変換
// 先頭にBOMがあればそちらを優先する
func decode(data []byte, enc encoding.Encoding) (string, error) {
	decoder := unicode.BOMOverride(enc.NewDecoder())
	reader := transform.NewReader(bytes.NewReader(data), decoder)

	utf8Data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}

	return string(utf8Data), nil
}
