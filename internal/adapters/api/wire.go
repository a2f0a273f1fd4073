package api

import "github.com/bnema/bilive-keeper/internal/domain"

// Wire envelopes for the platform's JSON responses. Field names follow the
// server's casing, MASTERID included.

type heartEnvelope struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

type signInfoEnvelope struct {
	Code int `json:"code"`
	Data struct {
		Status      int `json:"status"`
		HadSignDays int `json:"hadSignDays"`
	} `json:"data"`
}

type taskEnvelope struct {
	Code int `json:"code"`
	Data struct {
		Minute    int   `json:"minute"`
		Silver    int   `json:"silver"`
		TimeStart int64 `json:"time_start"`
		TimeEnd   int64 `json:"time_end"`
	} `json:"data"`
}

func (e taskEnvelope) task() domain.ClaimTask {
	return domain.ClaimTask{
		Code:      e.Code,
		Minute:    e.Data.Minute,
		Silver:    e.Data.Silver,
		TimeStart: e.Data.TimeStart,
		TimeEnd:   e.Data.TimeEnd,
	}
}

type awardEnvelope struct {
	Code int `json:"code"`
	Data struct {
		Silver int `json:"silver"`
		IsEnd  int `json:"isEnd"`
	} `json:"data"`
}

func (e awardEnvelope) award() domain.AwardReply {
	return domain.AwardReply{
		Code:   e.Code,
		Silver: e.Data.Silver,
		IsEnd:  e.Data.IsEnd != 0,
	}
}

type roomEnvelope struct {
	Code int `json:"code"`
	Data struct {
		MasterID int64 `json:"MASTERID"`
	} `json:"data"`
}

type eventIndexEnvelope struct {
	Code int `json:"code"`
	Data struct {
		Heart     bool `json:"heart"`
		HeartTime int  `json:"heartTime"`
	} `json:"data"`
}

type eventHeartEnvelope struct {
	Code int `json:"code"`
	Data struct {
		Heart bool `json:"heart"`
	} `json:"data"`
}
