package momo

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ---- request records ----

// appInfo is the app build block present in every body.
type appInfo struct {
	Lang        string `json:"lang"`
	AppID       string `json:"appId"`
	AppVer      int    `json:"appVer"`
	AppCode     string `json:"appCode"`
	DeviceOS    string `json:"deviceOS"`
	BuildNumber int    `json:"buildNumber"`
	Channel     string `json:"channel"`
}

func newAppInfo(p AppProfile) appInfo {
	return appInfo{
		Lang:        p.Lang,
		AppID:       p.AppID,
		AppVer:      p.AppVer,
		AppCode:     p.AppCode,
		DeviceOS:    p.DeviceOS,
		BuildNumber: p.BuildNumber,
		Channel:     p.Channel,
	}
}

func newHistoryAppInfo(p AppProfile) appInfo {
	info := newAppInfo(p)
	info.AppID = p.History.AppID
	info.BuildNumber = p.History.BuildNumber
	return info
}

// messageForm is the envelope of msgType-style calls.
type messageForm struct {
	appInfo
	MsgType   string `json:"msgType"`
	CmdID     string `json:"cmdId"`
	Time      int64  `json:"time"`
	Result    bool   `json:"result"`
	ErrorCode int    `json:"errorCode"`
	ErrorDesc string `json:"errorDesc"`
	User      string `json:"user"`
	Pass      string `json:"pass,omitempty"`
}

type messageRequest struct {
	messageForm
	MomoMsg interface{} `json:"momoMsg"`
	Extra   interface{} `json:"extra"`
}

func newMessageForm(p AppProfile, phone, msgType string, ts int64) messageForm {
	return messageForm{
		appInfo:   newAppInfo(p),
		MsgType:   msgType,
		CmdID:     strconv.FormatInt(ts, 10) + "000000",
		Time:      ts,
		Result:    true,
		ErrorCode: 0,
		ErrorDesc: "",
		User:      phone,
	}
}

type regDeviceMsg struct {
	Class        string `json:"_class"`
	Number       string `json:"number"`
	IMEI         string `json:"imei"`
	CountryName  string `json:"cname"`
	CountryCode  string `json:"ccode"`
	Device       string `json:"device"`
	Firmware     string `json:"firmware"`
	Hardware     string `json:"hardware"`
	Manufacturer string `json:"manufacture"`
	Carrier      string `json:"csp"`
	ICC          string `json:"icc"`
	MCC          string `json:"mcc"`
	DeviceOS     string `json:"device_os"`
}

type sendOTPExtra struct {
	Action    string `json:"action"`
	RKey      string `json:"rkey"`
	AAID      string `json:"AAID"`
	IDFA      string `json:"IDFA"`
	Token     string `json:"TOKEN"`
	Simulator string `json:"SIMULATOR"`
	IsVoice   bool   `json:"isVoice"`
	Checksum  string `json:"checkSum"`
}

type regDeviceExtra struct {
	OHash     string `json:"ohash"`
	AAID      string `json:"AAID"`
	IDFA      string `json:"IDFA"`
	Token     string `json:"TOKEN"`
	Simulator string `json:"SIMULATOR"`
	Checksum  string `json:"checkSum"`
}

type loginMsg struct {
	Class   string `json:"_class"`
	IsSetup bool   `json:"isSetup"`
}

type loginExtra struct {
	PHash     string `json:"pHash"`
	Checksum  string `json:"checkSum"`
	AAID      string `json:"AAID"`
	IDFA      string `json:"IDFA"`
	Token     string `json:"TOKEN"`
	Simulator string `json:"SIMULATOR"`
}

type checksumExtra struct {
	Checksum string `json:"checkSum"`
}

type browseRequest struct {
	RequestID int64  `json:"requestId"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Offset    int    `json:"offset"`
	Limit     int    `json:"limit"`
	appInfo
}

type detailRequest struct {
	RequestID int64  `json:"requestId"`
	TransID   int64  `json:"transId"`
	ServiceID string `json:"serviceId,omitempty"`
	appInfo
}

type findReceiverMsg struct {
	CallerID     string `json:"callerId"`
	TargetUserID string `json:"targetUserId"`
	Class        string `json:"_class"`
}

type transferInitMsg struct {
	ClientTime  int64          `json:"clientTime"`
	TranType    int            `json:"tranType"`
	Comment     string         `json:"comment"`
	Amount      int64          `json:"amount"`
	PartnerID   string         `json:"partnerId"`
	PartnerName string         `json:"partnerName"`
	Ref         string         `json:"ref"`
	ServiceCode string         `json:"serviceCode"`
	ServiceID   string         `json:"serviceId"`
	Class       string         `json:"_class"`
	TranList    []transferItem `json:"tranList"`
	MoneySource int            `json:"moneySource"`
	PartnerCode string         `json:"partnerCode"`
}

type transferItem struct {
	PartnerName    string `json:"partnerName"`
	PartnerID      string `json:"partnerId"`
	OriginalAmount int64  `json:"originalAmount"`
	ServiceCode    string `json:"serviceCode"`
	ThemeURL       string `json:"themeUrl"`
	ReceiverType   int    `json:"receiverType"`
	Class          string `json:"_class"`
	TranType       int    `json:"tranType"`
	Comment        string `json:"comment"`
	MoneySource    int    `json:"moneySource"`
	PartnerCode    string `json:"partnerCode"`
	ServiceMode    string `json:"serviceMode"`
	ServiceID      string `json:"serviceId"`
}

type transferConfirmMsg struct {
	Class           string        `json:"_class"`
	TranType        int           `json:"tranType"`
	Quantity        int           `json:"quantity"`
	IDFirstReplyMsg string        `json:"idFirstReplyMsg"`
	MoneySource     int           `json:"moneySource"`
	CashbackAmount  int64         `json:"cbAmount"`
	IDs             []string      `json:"ids"`
	Amount          int64         `json:"amount"`
	OriginalAmount  int64         `json:"originalAmount"`
	CashInAmount    int64         `json:"cashInAmount"`
	TranHisMsgs     []tranHisItem `json:"tranHisMsgs"`
}

type tranHisItem struct {
	ID             string `json:"ID"`
	User           string `json:"user"`
	ServiceMode    string `json:"serviceMode"`
	OriginalAmount int64  `json:"originalAmount"`
	ServiceID      string `json:"serviceId"`
	Quantity       int    `json:"quantity"`
	ReceiverType   int    `json:"receiverType"`
	SourceToken    string `json:"sourceToken"`
	Class          string `json:"_class"`
}

// ---- response records ----

// errorReply is the error portion every response may carry.
type errorReply struct {
	ErrorCode json.RawMessage `json:"errorCode"`
	ErrorDesc flexString      `json:"errorDesc"`
}

type sendOTPReply struct {
	ResultType string `json:"resultType"`
}

type regDeviceReply struct {
	Extra struct {
		OHash    flexString `json:"ohash"`
		SetupKey flexString `json:"setupKey"`
	} `json:"extra"`
}

type loginReply struct {
	Extra struct {
		AuthToken         flexString `json:"AUTH_TOKEN"`
		RequestEncryptKey flexString `json:"REQUEST_ENCRYPT_KEY"`
		RefreshToken      flexString `json:"REFRESH_TOKEN"`
	} `json:"extra"`
}

type historyRecord struct {
	TransID      flexInt    `json:"transId"`
	ServiceID    flexString `json:"serviceId"`
	SourceID     flexString `json:"sourceId"`
	SourceName   flexString `json:"sourceName"`
	TargetID     flexString `json:"targetId"`
	TargetName   flexString `json:"targetName"`
	IO           flexInt    `json:"io"`
	LastUpdate   flexInt    `json:"lastUpdate"`
	CreatedAt    flexInt    `json:"createdAt"`
	TranshisData flexString `json:"transhisData"`
	PostBalance  flexInt    `json:"postBalance"`
	TotalAmount  flexInt    `json:"totalAmount"`
}

type browseReply struct {
	MomoMsg      []historyRecord `json:"momoMsg"`
	TotalItems   flexInt         `json:"totalItems"`
	CurrentLimit flexInt         `json:"currentLimit"`
	ListOver     bool            `json:"listOver"`
}

type detailRecord struct {
	historyRecord
	ServiceData *string `json:"serviceData"`
}

type detailReply struct {
	MomoMsg *detailRecord `json:"momoMsg"`
}

type receiverReply struct {
	MomoMsg struct {
		ReceiverProfile *struct {
			UserID             flexString `json:"userId"`
			AgentID            flexInt    `json:"agentId"`
			Name               flexString `json:"name"`
			MutualFriendsTotal flexInt    `json:"mutualFriendsTotal"`
			AvatarURL          flexString `json:"avatarUrl"`
		} `json:"receiverProfile"`
	} `json:"momoMsg"`
}

type transferInitReply struct {
	MomoMsg struct {
		ReplyMsgs []struct {
			ID         flexString `json:"id"`
			TranHisMsg struct {
				Amount      flexInt    `json:"amount"`
				PartnerID   flexString `json:"partnerId"`
				PartnerName flexString `json:"partnerName"`
			} `json:"tranHisMsg"`
		} `json:"replyMsgs"`
	} `json:"momoMsg"`
}

type transferConfirmReply struct {
	Extra struct {
		Balance flexInt `json:"BALANCE"`
	} `json:"extra"`
}

// ---- lenient scalars ----

// flexString accepts a JSON string, number or bool. null decodes to "".
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*s = ""
	case b[0] == '"':
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
	default:
		*s = flexString(b)
	}
	return nil
}

// flexInt accepts a JSON number or numeric string. Anything that is not a
// finite number decodes to 0, so absent amounts default to zero.
type flexInt int64

func (n *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	text := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &text); err != nil {
			return err
		}
	}
	*n = flexInt(parseLenientInt(text))
	return nil
}

func parseLenientInt(text string) int64 {
	text = strings.TrimSpace(text)
	if v, err := strconv.ParseInt(text, 10, 64); err == nil {
		return v
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int64(f)
}

// truthy mirrors how the server's error flag is evaluated: 0, "", false and
// null mean success.
func truthy(raw json.RawMessage) bool {
	v := strings.TrimSpace(string(raw))
	switch v {
	case "", "null", "false", "0", `""`, "0.0":
		return false
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f != 0
	}
	return true
}
