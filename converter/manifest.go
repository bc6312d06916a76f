package converter

import (
	"fmt"
	"slices"

	"github.com/tsfans/xbatis-to-sql/parser"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/exp/maps"
)

const ManifestFileName = "result.json"

// 生成result.json(relaxed extended JSON)，记录每个文件的语句、片段和诊断信息
type ManifestConverter struct {
	dialect string
}

type Manifest struct {
	Dialect string         `bson:"dialect"`
	Files   []ManifestFile `bson:"files"`
}

type ManifestFile struct {
	Path        string               `bson:"path"`
	Namespace   string               `bson:"namespace,omitempty"`
	Fragments   []string             `bson:"fragments"`
	Statements  []ManifestStatement  `bson:"statements"`
	Diagnostics []ManifestDiagnostic `bson:"diagnostics,omitempty"`
}

type ManifestStatement struct {
	Id   string `bson:"id"`
	Kind string `bson:"kind"`
	SQL  string `bson:"sql"`
}

type ManifestDiagnostic struct {
	Statement string `bson:"statement"`
	Fragment  string `bson:"fragment,omitempty"`
	Message   string `bson:"message"`
}

func NewManifestConverter(dialect parser.Dialect) MapperConverter {
	return &ManifestConverter{dialect: dialect.Name()}
}

func (c *ManifestConverter) Convert(files []*parser.MapperFile) (out Output, err error) {
	manifest := Manifest{Dialect: c.dialect, Files: make([]ManifestFile, 0, len(files))}
	for _, file := range files {
		manifest.Files = append(manifest.Files, manifestFile(file))
	}

	var content []byte
	content, err = bson.MarshalExtJSON(manifest, false, false)
	if err != nil {
		err = fmt.Errorf("marshal manifest failed,err=[%w]", err)
		return
	}
	out = output{name: ManifestFileName, content: content}
	return
}

func manifestFile(file *parser.MapperFile) ManifestFile {
	fragments := maps.Keys(file.Fragments)
	slices.Sort(fragments)

	mf := ManifestFile{
		Path:       file.Path,
		Namespace:  file.Namespace,
		Fragments:  fragments,
		Statements: make([]ManifestStatement, 0, len(file.Statements)),
	}
	for _, stmt := range file.Statements {
		mf.Statements = append(mf.Statements, ManifestStatement{Id: stmt.Id, Kind: stmt.Kind.String(), SQL: stmt.Final})
	}
	for _, diagnostic := range file.Diagnostics {
		mf.Diagnostics = append(mf.Diagnostics, ManifestDiagnostic{
			Statement: diagnostic.Statement,
			Fragment:  diagnostic.Fragment,
			Message:   diagnostic.Err.Error(),
		})
	}
	return mf
}
