package gadget

import "github.com/pkg/errors"

func errEmptySummary() error {
	return errors.New("gadget: cannot build a gadget from an empty summary")
}

func errZeroReach() error {
	return errors.New("gadget: summary's total reach weight is zero")
}
