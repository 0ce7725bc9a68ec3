package config

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/LambdaTest/covdiff/pkg/errs"
	"github.com/LambdaTest/covdiff/pkg/utils"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const tagPrefix = "viper"

// populateConfig is used to parse config read through viper
func populateConfig(v *viper.Viper, config *Config) (*Config, error) {
	if err := recursivelySet(v, reflect.ValueOf(config), ""); err != nil {
		return nil, err
	}
	return config, nil
}

// recursivelySet is used to recursively set conf read from
// files to golang structs. Since nested values are accessed using periods
// we need to recursively parse the values
func recursivelySet(v *viper.Viper, val reflect.Value, prefix string) error {
	if val.Kind() != reflect.Ptr {
		return errors.New("config target must be a pointer")
	}

	// dereference
	val = reflect.Indirect(val)
	if val.Kind() != reflect.Struct {
		return errors.New("config target must point to a struct")
	}

	// grab the type for this instance
	vType := reflect.TypeOf(val.Interface())

	// go through child fields
	for i := 0; i < val.NumField(); i++ {
		thisField := val.Field(i)
		thisType := vType.Field(i)
		tags := getTags(thisType)
		// try to fetch value for each key using multiple tags
		for _, tag := range tags {
			key := prefix + tag
			switch thisField.Kind() {
			case reflect.Struct:
				if err := recursivelySet(v, thisField.Addr(), key+"."); err != nil {
					return err
				}
			case reflect.Int, reflect.Int32, reflect.Int64:
				n, err := cast.ToIntE(v.Get(key))
				if err != nil {
					return errs.ErrInvalidArgument(key, err.Error())
				}
				// skip the update if tag is not set in viper
				if n == 0 && thisField.Int() != 0 {
					continue
				}
				thisField.SetInt(int64(n))
			case reflect.String:
				// skip the update if tag is not set in viper
				if v.GetString(key) == "" && thisField.String() != "" {
					continue
				}
				thisField.SetString(v.GetString(key))
			case reflect.Bool:
				b, err := cast.ToBoolE(v.Get(key))
				if err != nil {
					return errs.ErrInvalidArgument(key, err.Error())
				}
				// skip the update if tag is not set in viper
				if !b && thisField.Bool() {
					continue
				}
				thisField.SetBool(b)
			case reflect.Slice:
				if thisField.Type().Elem().Kind() != reflect.String {
					return fmt.Errorf("unexpected slice type detected ~ aborting: %s", thisField.Type())
				}
				// lists may be given comma separated in env and config files
				values := utils.SplitList(v.GetStringSlice(key))
				if len(values) == 0 && thisField.Len() != 0 {
					continue
				}
				thisField.Set(reflect.ValueOf(values))
			default:
				return fmt.Errorf("unexpected type detected ~ aborting: %s", thisField.Kind())
			}
		}
	}

	return nil
}

func getTags(field reflect.StructField) []string {
	// check if maybe we have a special magic tag
	tag := field.Tag
	values := []string{}
	if tag != "" {
		for _, prefix := range []string{tagPrefix, "yaml", "json", "env", "mapstructure"} {
			if v := tag.Get(prefix); v != "" {
				values = append(values, v)
			}
		}
		if len(values) > 0 {
			return values
		}
	}

	return []string{field.Name}
}
