package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// DiamondsCSV is a twelve-row sample in the layout of the public diamonds
// dataset, including its unnamed index column.
//
// Expected pipeline counts: 12 loaded, 9 cleaned (rows 9-11 dropped for
// carat, geometry and a missing price), 6 after the color filter, 5 after
// clarity and 4 in the segment (ids 1, 6, 7 and 12).
const DiamondsCSV = `,carat,cut,color,clarity,depth,table,price,x,y,z
1,0.23,Ideal,E,VS1,61.5,55,326,3.95,3.98,2.43
2,0.21,Premium,E,SI1,59.8,61,326,3.89,3.84,2.31
3,0.29,Premium,I,VS2,62.4,58,334,4.2,4.23,2.63
4,0.31,Good,J,SI2,63.3,58,335,4.34,4.35,2.75
5,0.24,Very Good,J,VVS2,62.8,57,336,3.94,3.96,2.48
6,0.7,Ideal,D,VVS1,62.1,56,2757,5.7,5.72,3.55
7,1.01,Premium,F,IF,61.8,59,5000,6.4,6.38,3.95
8,0.9,Good,G,VS2,63.5,58,3900,6.1,6.12,3.88
9,2.5,Ideal,D,IF,61.2,57,18000,8.7,8.65,5.31
10,0.5,Ideal,E,VS1,61.0,56,1800,0,5.1,3.12
11,0.4,Fair,G,VVS2,64.0,60,,4.7,4.72,3.02
12,1.5,Very Good,G,VS2,62.2,58,9000,7.3,7.35,4.56
`

// SegmentIDs lists the ids DiamondsCSV keeps through every filter.
var SegmentIDs = []string{"1", "6", "7", "12"}

// WriteDiamondsCSV writes DiamondsCSV into a temp dir and returns its path.
func WriteDiamondsCSV(t *testing.T) string {
	t.Helper()
	return WriteFile(t, "diamonds.csv", DiamondsCSV)
}

// WriteFile writes content to name inside t.TempDir().
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}
