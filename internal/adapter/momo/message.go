package momo

// Message types, sent both in the body and in the msgtype header.
const (
	MsgSendOTP         = "SEND_OTP_MSG"
	MsgRegDevice       = "REG_DEVICE_MSG"
	MsgUserLogin       = "USER_LOGIN_MSG"
	MsgTransferInit    = "M2MU_INIT"
	MsgTransferConfirm = "M2MU_CONFIRM"
	MsgFindReceiver    = "FIND_RECEIVER_PROFILE"
)

// Server-side class names carried in momoMsg._class.
const (
	classRegDevice       = "mservice.backend.entity.msg.RegDeviceMsg"
	classLogin           = "mservice.backend.entity.msg.LoginMsg"
	classTransferInit    = "mservice.backend.entity.msg.M2MUInitMsg"
	classTransferConfirm = "mservice.backend.entity.msg.M2MUConfirmMsg"
	classForward         = "mservice.backend.entity.msg.ForwardMsg"
	classTranHis         = "mservice.backend.entity.msg.TranHisMsg"
)

// P2P transfer constants.
const (
	serviceP2P        = "transfer_p2p"
	callerP2P         = "FE_transfer_p2p"
	tranTypeP2P       = 2018
	moneySourceWallet = 1
	receiverTypeUser  = 1
	partnerCodeMomo   = "momo"
	sourceTokenWallet = "SOF-1"
	transferThemeURL  = "https://cdn.mservice.com.vn/app/img/transfer/theme/Muasam-750x260.png"
)

// Endpoints lists one URL per operation.
type Endpoints struct {
	SendOTP         string
	RegDevice       string
	Login           string
	Browse          string
	Details         string
	FindReceiver    string
	TransferInit    string
	TransferConfirm string
}

// DefaultEndpoints returns the production URLs.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		SendOTP:         "https://api.momo.vn/backend/otp-app/public/SEND_OTP_MSG",
		RegDevice:       "https://api.momo.vn/backend/otp-app/public/REG_DEVICE_MSG",
		Login:           "https://owa.momo.vn/public/login",
		Browse:          "https://api.momo.vn/sync/transhis/browse",
		Details:         "https://api.momo.vn/sync/transhis/details",
		FindReceiver:    "https://owa.momo.vn/api/FIND_RECEIVER_PROFILE",
		TransferInit:    "https://owa.momo.vn/api/M2MU_INIT",
		TransferConfirm: "https://owa.momo.vn/api/M2MU_CONFIRM",
	}
}

// EndpointsAt serves every operation from the production paths under base,
// e.g. a proxy or a local fake server.
func EndpointsAt(base string) Endpoints {
	return Endpoints{
		SendOTP:         base + "/backend/otp-app/public/SEND_OTP_MSG",
		RegDevice:       base + "/backend/otp-app/public/REG_DEVICE_MSG",
		Login:           base + "/public/login",
		Browse:          base + "/sync/transhis/browse",
		Details:         base + "/sync/transhis/details",
		FindReceiver:    base + "/api/FIND_RECEIVER_PROFILE",
		TransferInit:    base + "/api/M2MU_INIT",
		TransferConfirm: base + "/api/M2MU_CONFIRM",
	}
}
