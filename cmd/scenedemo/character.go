package main

var characterCmd = newKindCommands(kindCharacter)
