package types

// Relation names as they appear in the SQLite catalog.
const (
	CommitTable  = "_commit"
	PatchIDTable = "_patch_id"
	FixesTable   = "_fixes"
)

// Short names accepted by Database.Table and the CLI.
var shortTableNames = map[string]string{
	"commit":   CommitTable,
	"patch_id": PatchIDTable,
	"fixes":    FixesTable,
}

// StandardTableNames lists the relations in initialization order.
var StandardTableNames = []string{
	CommitTable,
	PatchIDTable,
	FixesTable,
}

// ResolveTableName maps a short name ("commit") or relation name ("_commit")
// to the relation name. Returns ErrTableNotFound for anything else.
func ResolveTableName(name string) (string, error) {
	if full, ok := shortTableNames[name]; ok {
		return full, nil
	}
	for _, n := range StandardTableNames {
		if n == name {
			return n, nil
		}
	}
	return "", ErrTableNotFound
}
