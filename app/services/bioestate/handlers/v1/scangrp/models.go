package scangrp

// newText is the payload for recording a typed sequence.
type newText struct {
	Sender   string `json:"sender" validate:"required,max=64"`
	Sequence string `json:"sequence" validate:"required"`
}
