// Package onirim describes the payloads exchanged with an Onirim game server
// and the stream termination rules the client derives from them.
//
// # Core Types
//
// Session: the server-issued identifier correlating every request of a game.
//
// Board: the table as the server sees it. State is the discriminator
// ("End" once the game is over); Done and Won are a separate completion
// signal used to present the end-of-game result.
//
// Status: one record of the server's status log. End marks the last one.
//
// Prompt: the input request the player must answer, with its Choices.
//
// ChoiceRequest: the player's answer, tagged with the session identifier.
//
// # Cards
//
// Board piles are lists of card keys ("LRK", "RB", "DN"). ParseCard turns a
// key into a Card that knows its class, colour and symbol.
package onirim
