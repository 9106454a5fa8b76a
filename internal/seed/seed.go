// Package seed supplies the roster the store starts with: the compiled-in
// demo roster, a YAML file, or a SQLite database.
package seed

import (
	"fmt"
	"os"

	"github.com/aanand-mishra/students-roster/internal/storage"
	"github.com/aanand-mishra/students-roster/internal/storage/sqlite"
	"github.com/aanand-mishra/students-roster/internal/types"
	"gopkg.in/yaml.v3"
)

// Builtin returns the demo roster used when no seed file is configured.
func Builtin() storage.SeedProvider {
	return storage.SeedFunc(func() ([]types.Student, error) {
		return []types.Student{
			{ID: "1", StudentInput: types.StudentInput{
				FirstName: "Aarav", LastName: "Sharma", Email: "aarav.sharma@example.com",
				ContactNumber: "9876543210", Gender: "male", CollegeName: "IIT Delhi",
				Department: "Computer Science", Hobbies: "cricket", DOB: "2002-04-11",
			}},
			{ID: "2", StudentInput: types.StudentInput{
				FirstName: "Priya", MiddleName: "K", LastName: "Nair", Email: "priya.nair@example.com",
				ContactNumber: "9123456780", Gender: "female", CollegeName: "NIT Trichy",
				Department: "Electronics", Hobbies: "painting", DOB: "2001-09-23",
			}},
			{ID: "3", StudentInput: types.StudentInput{
				FirstName: "Rakesh", LastName: "Verma", Email: "rakesh@example.com",
				Gender: "male", CollegeName: "BITS Pilani", Department: "Mechanical",
			}},
		}, nil
	})
}

// YAMLFile reads a YAML list of students from path:
//
//	- id: "1"
//	  firstName: Ann
//	  lastName: Lee
//	  collegeName: X
func YAMLFile(path string) storage.SeedProvider {
	return storage.SeedFunc(func() ([]types.Student, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("seed.YAMLFile: read: %w", err)
		}

		var students []types.Student
		if err := yaml.Unmarshal(data, &students); err != nil {
			return nil, fmt.Errorf("seed.YAMLFile: decode %s: %w", path, err)
		}
		if students == nil {
			students = make([]types.Student, 0)
		}
		return students, nil
	})
}

// Load reads the seed roster from the named source. path is ignored for
// the builtin source.
func Load(source, path string) ([]types.Student, error) {
	switch source {
	case "", storage.SourceBuiltin:
		return Builtin().Seed()

	case storage.SourceYAML:
		return YAMLFile(path).Seed()

	case storage.SourceSQLite:
		db, err := sqlite.New(path)
		if err != nil {
			return nil, fmt.Errorf("seed.Load: %w", err)
		}
		defer db.Close()
		return db.Seed()

	default:
		return nil, fmt.Errorf("seed.Load: %w: %q", storage.ErrUnknownSource, source)
	}
}
