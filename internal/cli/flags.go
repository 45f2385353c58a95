package cli

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// FlagDef defines a command-line flag bound to a viper configuration key.
type (
	flagType interface {
		string | int | bool | []int | []string
	}

	FlagDef[T flagType] struct {
		Name         string
		ViperKey     string
		DefaultValue T
		Description  string
	}
)

// DeclareFlags declares multiple flags on fs and binds them to v.
func DeclareFlags[T flagType](fs *pflag.FlagSet, v *viper.Viper, flags []FlagDef[T]) error {
	for _, flag := range flags {
		if err := declareFlag(fs, v, flag); err != nil {
			return err
		}
	}
	return nil
}

// declareFlag declares a single flag and binds it to a viper configuration key.
// The type parameter T determines the flag type.
func declareFlag[T flagType](fs *pflag.FlagSet, v *viper.Viper, flag FlagDef[T]) error {
	switch value := any(flag.DefaultValue).(type) {
	case string:
		fs.String(flag.Name, value, flag.Description)
	case int:
		fs.Int(flag.Name, value, flag.Description)
	case bool:
		fs.Bool(flag.Name, value, flag.Description)
	case []int:
		fs.IntSlice(flag.Name, value, flag.Description)
	case []string:
		fs.StringSlice(flag.Name, value, flag.Description)
	}

	if flag.ViperKey == "" {
		return nil
	}
	if err := v.BindPFlag(flag.ViperKey, fs.Lookup(flag.Name)); err != nil {
		return fmt.Errorf("failed to bind flag %s: %w", flag.Name, err)
	}
	return nil
}

// MustDeclareFlags is DeclareFlags for init functions.
func MustDeclareFlags[T flagType](fs *pflag.FlagSet, v *viper.Viper, flags []FlagDef[T]) {
	if err := DeclareFlags(fs, v, flags); err != nil {
		panic(err)
	}
}
