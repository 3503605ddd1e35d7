package pokeapi

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/pokedex/internal/domain/catalog"
)

// decodeList decodes {"results":[{"name":..,"url":..}]}.
func decodeList(d *jx.Decoder) ([]catalog.Ref, error) {
	refs := []catalog.Ref{}
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		if string(key) != "results" {
			return d.Skip()
		}
		return d.Arr(func(d *jx.Decoder) error {
			ref, err := decodeRef(d)
			if err != nil {
				return err
			}
			refs = append(refs, ref)
			return nil
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "list")
	}
	return refs, nil
}

// decodeRef decodes {"name":..,"url":..}, ignoring other fields.
func decodeRef(d *jx.Decoder) (catalog.Ref, error) {
	var ref catalog.Ref
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "name":
			return optStr(d, &ref.Name)
		case "url":
			return optStr(d, &ref.URL)
		default:
			return d.Skip()
		}
	})
	return ref, err
}

// decodeRecord decodes a /pokemon/{id} detail response.
func decodeRecord(d *jx.Decoder) (*catalog.Record, error) {
	rec := &catalog.Record{}
	var (
		m       catalog.Measurements
		hasSize bool
	)
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "id":
			v, err := d.Int()
			rec.ID = v
			return err
		case "name":
			return optStr(d, &rec.Name)
		case "sprites":
			return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
				if string(key) != "front_default" {
					return d.Skip()
				}
				return optStr(d, &rec.Image)
			})
		case "types":
			return d.Arr(func(d *jx.Decoder) error {
				return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
					if string(key) != "type" {
						return d.Skip()
					}
					ref, err := decodeRef(d)
					if err != nil {
						return err
					}
					rec.Types = append(rec.Types, ref.Name)
					return nil
				})
			})
		case "height":
			hasSize = true
			return optInt(d, &m.Height)
		case "weight":
			hasSize = true
			return optInt(d, &m.Weight)
		case "abilities":
			return d.Arr(func(d *jx.Decoder) error {
				return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
					if string(key) != "ability" {
						return d.Skip()
					}
					ref, err := decodeRef(d)
					if err != nil {
						return err
					}
					rec.AbilityRefs = append(rec.AbilityRefs, ref)
					return nil
				})
			})
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return nil, errors.Wrap(err, "pokemon")
	}
	if hasSize {
		rec.Measurements = &m
	}
	return rec, nil
}

// decodeAbility decodes the flavor_text_entries of an /ability/{id} response.
func decodeAbility(d *jx.Decoder) ([]catalog.DescriptionEntry, error) {
	entries := []catalog.DescriptionEntry{}
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		if string(key) != "flavor_text_entries" {
			return d.Skip()
		}
		return d.Arr(func(d *jx.Decoder) error {
			var e catalog.DescriptionEntry
			err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
				switch string(key) {
				case "flavor_text":
					return optStr(d, &e.Text)
				case "version_group":
					ref, err := decodeRef(d)
					e.Version = ref.Name
					return err
				case "language":
					ref, err := decodeRef(d)
					e.Language = ref.Name
					return err
				default:
					return d.Skip()
				}
			})
			if err != nil {
				return err
			}
			entries = append(entries, e)
			return nil
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "ability")
	}
	return entries, nil
}

func optStr(d *jx.Decoder, v *string) error {
	if d.Next() == jx.Null {
		return d.Null()
	}
	s, err := d.Str()
	if err != nil {
		return err
	}
	*v = s
	return nil
}

func optInt(d *jx.Decoder, v *int) error {
	if d.Next() == jx.Null {
		return d.Null()
	}
	n, err := d.Int()
	if err != nil {
		return err
	}
	*v = n
	return nil
}
