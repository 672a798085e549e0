package service

import (
	"fmt"
	"strings"

	"go-inventory-console/internal/model"
	"go-inventory-console/pkg/validator"
)

// Messages shown for transfer form failures.
const (
	MsgMissingProduct     = "Missing Product Id."
	MsgMissingDestination = "Please select a destination warehouse."
	MsgSameWarehouse      = "Destination warehouse cannot be the same as current warehouse."
	MsgMissingCredentials = "Please enter both username and password."
)

func validateLogin(req *model.LoginRequest) error {
	req.Username = strings.TrimSpace(req.Username)
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, MsgMissingCredentials)
	}
	return nil
}

// validateTransfer reports the first failing field the way the transfer form
// does: product, then destination.
func validateTransfer(req *model.TransferRequest) error {
	errs := validator.ValidateStruct(req)
	if len(errs) == 0 {
		return nil
	}
	e := errs[0]
	msg := validator.Message(errs)
	switch {
	case strings.HasSuffix(e.FailedField, ".ProductID"):
		msg = MsgMissingProduct
	case strings.HasSuffix(e.FailedField, ".WarehouseID") && e.Tag == "required":
		msg = MsgMissingDestination
	case strings.HasSuffix(e.FailedField, ".WarehouseID") && e.Tag == "nefield":
		msg = MsgSameWarehouse
	}
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}
