package domain

type ChannelID string

const voiceRoomPrefix = "voice:"

// VoiceRoom is the broadcast room of a voice channel. It never collides with
// the text room, which is the bare channel id.
func VoiceRoom(ch ChannelID) string { return voiceRoomPrefix + string(ch) }

// TextRoom is the broadcast room of a text channel.
func TextRoom(ch ChannelID) string { return string(ch) }
