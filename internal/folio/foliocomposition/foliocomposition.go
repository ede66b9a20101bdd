// Copyright 2026 Peter Edge
//
// All rights reserved.

// Package foliocomposition reads hand-maintained fund compositions.
//
// The file is HJSON so that it can carry comments and unquoted keys:
//
//	# iShares Core S&P 500, numbers from the factsheet.
//	funds: [
//	  {
//	    symbols: ["CSSPX", "IE00B5BMR087"]
//	    domicile: IE
//	    withholding_tax: 15
//	    sector: {
//	      Technology: 31.2
//	      Healthcare: 12.1
//	    }
//	    country: {
//	      US: 99.4
//	    }
//	  }
//	]
package foliocomposition

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/bufdev/folioctl/internal/folio/folioportfolio"
	"github.com/bufdev/folioctl/internal/folio/folioprovider"
	"github.com/bufdev/folioctl/internal/pkg/ttlcache"
	"github.com/hjson/hjson-go/v4"
)

// File is a composition file.
//
// It implements folioprovider.CompositionClient. Symbols with an exchange
// suffix also match the entry of the bare symbol.
type File interface {
	folioprovider.CompositionClient

	// Symbols returns the symbols with a composition, sorted.
	Symbols() []string
}

// ReadFile reads the composition file at the path.
func ReadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	file, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return file, nil
}

// Parse parses the HJSON data of a composition file.
func Parse(data []byte) (File, error) {
	var raw any
	if err := hjson.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("could not parse composition file: %w", err)
	}
	// Strict decoding goes through JSON, which rejects unknown keys.
	jsonData, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	decoder := json.NewDecoder(bytes.NewReader(jsonData))
	decoder.DisallowUnknownFields()
	var externalFile externalFile
	if err := decoder.Decode(&externalFile); err != nil {
		return nil, fmt.Errorf("could not decode composition file: %w", err)
	}
	return newFile(externalFile)
}

// *** PRIVATE ***

type externalFile struct {
	Funds []externalFund `json:"funds"`
}

type externalFund struct {
	Symbols        []string                 `json:"symbols"`
	Domicile       string                   `json:"domicile"`
	WithholdingTax float64                  `json:"withholding_tax"`
	Sector         map[string]float64       `json:"sector"`
	Country        map[string]float64       `json:"country"`
	Currency       map[string]float64       `json:"currency"`
	Holdings       []folioportfolio.Holding `json:"holdings"`
}

type file struct {
	compositions map[string]*folioportfolio.ETFComposition
}

func newFile(externalFile externalFile) (*file, error) {
	file := &file{
		compositions: make(map[string]*folioportfolio.ETFComposition),
	}
	for i, externalFund := range externalFile.Funds {
		if len(externalFund.Symbols) == 0 {
			return nil, fmt.Errorf("fund %d: no symbols", i)
		}
		composition := &folioportfolio.ETFComposition{
			Symbol:         strings.ToUpper(strings.TrimSpace(externalFund.Symbols[0])),
			Sector:         toWeights(externalFund.Sector),
			Country:        toWeights(externalFund.Country),
			Currency:       toWeights(externalFund.Currency),
			Holdings:       externalFund.Holdings,
			Domicile:       strings.ToUpper(strings.TrimSpace(externalFund.Domicile)),
			WithholdingTax: externalFund.WithholdingTax,
		}
		if err := validateComposition(composition); err != nil {
			return nil, fmt.Errorf("fund %s: %w", composition.Symbol, err)
		}
		for _, symbol := range externalFund.Symbols {
			key := ttlcache.NormalizeKey(symbol)
			if key == "" {
				return nil, fmt.Errorf("fund %s: empty symbol", composition.Symbol)
			}
			if _, ok := file.compositions[key]; ok {
				return nil, fmt.Errorf("duplicate symbol %q", key)
			}
			file.compositions[key] = composition
		}
	}
	return file, nil
}

func (f *file) GetComposition(_ context.Context, symbol string) (*folioportfolio.ETFComposition, error) {
	key := ttlcache.NormalizeKey(symbol)
	composition, ok := f.compositions[key]
	if !ok {
		if index := strings.Index(key, "."); index > 0 {
			composition, ok = f.compositions[key[:index]]
		}
	}
	if !ok {
		return nil, nil
	}
	return composition.Clone(), nil
}

func (f *file) Symbols() []string {
	symbols := make([]string, 0, len(f.compositions))
	for symbol := range f.compositions {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

func validateComposition(composition *folioportfolio.ETFComposition) error {
	var errs []error
	for name, weights := range map[string][]folioportfolio.Weight{
		"sector":   composition.Sector,
		"country":  composition.Country,
		"currency": composition.Currency,
	} {
		for _, weight := range weights {
			if weight.Weight < 0 {
				errs = append(errs, fmt.Errorf("%s %s: negative weight %v", name, weight.Key, weight.Weight))
			}
		}
	}
	if composition.WithholdingTax < 0 || composition.WithholdingTax > 100 {
		errs = append(errs, fmt.Errorf("withholding_tax must be between 0 and 100: %v", composition.WithholdingTax))
	}
	return errors.Join(errs...)
}

// toWeights returns the weights sorted by weight descending, then key.
func toWeights(m map[string]float64) []folioportfolio.Weight {
	if len(m) == 0 {
		return nil
	}
	weights := make([]folioportfolio.Weight, 0, len(m))
	for key, weight := range m {
		weights = append(weights, folioportfolio.Weight{Key: key, Weight: weight})
	}
	sort.Slice(weights, func(i int, j int) bool {
		if weights[i].Weight != weights[j].Weight {
			return weights[i].Weight > weights[j].Weight
		}
		return weights[i].Key < weights[j].Key
	})
	return weights
}
