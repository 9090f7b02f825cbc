package main

var groupCmd = newKindCommands(kindGroup)
