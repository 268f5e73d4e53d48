// Package dataset exposes the Fisher Iris measurements the training command
// fits on. The CSV is embedded so training needs no network or files.
package dataset

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
)

//go:embed iris.csv
var irisCSV []byte

// Dataset holds feature rows and class indices. Labels[i] names class i.
type Dataset struct {
	FeatureNames []string
	Labels       []string
	X            [][]float64
	Y            []int
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.X) }

// Iris parses the embedded dataset. Class indices follow first appearance,
// giving setosa=0, versicolor=1, virginica=2.
func Iris() (*Dataset, error) {
	return Parse(irisCSV)
}

// Parse reads a CSV whose header names the features followed by a label column.
func Parse(data []byte) (*Dataset, error) {
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) < 2 {
		return nil, errors.New("dataset has no rows")
	}
	header := records[0]
	if len(header) < 2 {
		return nil, errors.New("dataset needs at least one feature and a label column")
	}
	nf := len(header) - 1
	d := &Dataset{FeatureNames: append([]string(nil), header[:nf]...)}
	classes := map[string]int{}
	for i, rec := range records[1:] {
		row := make([]float64, nf)
		for j := 0; j < nf; j++ {
			v, err := strconv.ParseFloat(rec[j], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", i+1, header[j], err)
			}
			row[j] = v
		}
		name := rec[nf]
		c, ok := classes[name]
		if !ok {
			c = len(d.Labels)
			classes[name] = c
			d.Labels = append(d.Labels, name)
		}
		d.X = append(d.X, row)
		d.Y = append(d.Y, c)
	}
	return d, nil
}

// Split shuffles row indices with seed and holds out testRatio of them.
// testRatio outside (0, 1) yields an empty test set.
func (d *Dataset) Split(testRatio float64, seed int64) (train, test *Dataset) {
	perm := rand.New(rand.NewSource(seed)).Perm(d.Len())
	nTest := 0
	if testRatio > 0 && testRatio < 1 {
		nTest = int(float64(d.Len())*testRatio + 0.5)
	}
	return d.subset(perm[nTest:]), d.subset(perm[:nTest])
}

func (d *Dataset) subset(idx []int) *Dataset {
	out := &Dataset{FeatureNames: d.FeatureNames, Labels: d.Labels}
	for _, i := range idx {
		out.X = append(out.X, d.X[i])
		out.Y = append(out.Y, d.Y[i])
	}
	return out
}
