package main

var placeCmd = newKindCommands(kindPlace)
