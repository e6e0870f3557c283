package ledgergrp

import "github.com/francefarms/bioestate/foundation/ledger"

type block struct {
	Number    int    `json:"number"`
	Timestamp string `json:"timestamp"`
	Sender    string `json:"sender"`
	Name      string `json:"name"`
	Data      string `json:"data"`
	PrevHash  string `json:"prev_hash"`
	Hash      string `json:"hash"`
}

type blocks struct {
	LatestBlock string  `json:"latest_block"`
	Count       int     `json:"count"`
	Blocks      []block `json:"blocks"`
}

func toBlock(blk ledger.Block, name string) block {
	return block{
		Number:    blk.Number,
		Timestamp: blk.Timestamp,
		Sender:    blk.Sender,
		Name:      name,
		Data:      blk.Data,
		PrevHash:  blk.PrevHash,
		Hash:      blk.Hash,
	}
}
