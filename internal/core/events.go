package core

// Inbound events (client -> server).
const (
	EvUserConnect      = "user:connect"
	EvUserStatus       = "user:status"
	EvUserUpdateStatus = "user:updateStatus"
	EvChannelJoin      = "channel:join"
	EvChannelLeave     = "channel:leave"
	EvVoiceJoin        = "voice:join"
	EvVoiceLeave       = "voice:leave"
	EvVoiceMute        = "voice:mute"
	EvVoiceDeafen      = "voice:deafen"
	EvVoiceVideo       = "voice:video"
	EvVoiceGetUsers    = "voice:get-users"
	EvSpeakingStart    = "voice:speaking-start"
	EvSpeakingEnd      = "voice:speaking-end"
	EvWhoAmI           = "whoami"
	EvPing             = "ping"
)

// Relayed both ways under the same name.
const (
	EvVoiceOffer        = "voice:offer"
	EvVoiceAnswer       = "voice:answer"
	EvVoiceICECandidate = "voice:ice-candidate"
	EvVoiceSignal       = "voice:signal"
)

// Outbound events (server -> client).
const (
	EvUsersUpdate    = "users:update"
	EvVoiceUpdate    = "voice:update"
	EvVoiceUserCount = "voice:user-count"
	EvVoiceSpeaking  = "voice:user-speaking"
	EvUserDisconnect = "user:disconnect"
	EvPong           = "pong"
	EvWhoAmIResponse = "whoami"
)
